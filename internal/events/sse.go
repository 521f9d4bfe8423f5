package events

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SSESink writes named server-sent events to one HTTP response stream.
// The connection lives until the client goes away; the handler owning the
// request context unregisters the sink when that happens.
type SSESink struct {
	id        string
	mu        sync.Mutex
	w         http.ResponseWriter
	flusher   http.Flusher
	done      chan struct{}
	closeOnce sync.Once
}

// NewSSESink prepares the response for event streaming and returns the sink.
// Fails when the transport cannot flush incrementally.
func NewSSESink(w http.ResponseWriter) (*SSESink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSESink{
		id:      uuid.NewString(),
		w:       w,
		flusher: flusher,
		done:    make(chan struct{}),
	}, nil
}

func (s *SSESink) ID() string {
	return s.id
}

func (s *SSESink) Send(event string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Done is closed when the sink is dropped, so the handler owning the response
// stream can return instead of holding up server shutdown.
func (s *SSESink) Done() <-chan struct{} {
	return s.done
}

// Close releases the handler; the response stream itself is owned by net/http
// and ends when the handler returns.
func (s *SSESink) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}
