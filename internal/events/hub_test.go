package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	id       string
	events   []string
	payloads [][]byte
	sendErr  error
	closed   bool
}

func (f *fakeSink) ID() string { return f.id }

func (f *fakeSink) Send(event string, data []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestBroadcastReachesAllSinks(t *testing.T) {
	hub := NewHub(quietLogger())
	a := &fakeSink{id: "a"}
	b := &fakeSink{id: "b"}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(EventMessage, map[string]interface{}{"n": 1})

	assert.Equal(t, []string{EventMessage}, a.events)
	assert.Equal(t, []string{EventMessage}, b.events)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(a.payloads[0], &decoded))
	assert.Equal(t, float64(1), decoded["n"])
}

func TestBroadcastDropsFailingSink(t *testing.T) {
	hub := NewHub(quietLogger())
	good := &fakeSink{id: "good"}
	bad := &fakeSink{id: "bad", sendErr: errors.New("write: broken pipe")}
	hub.Register(good)
	hub.Register(bad)

	hub.Broadcast(EventStatus, map[string]string{"action": "status"})

	assert.Equal(t, 1, hub.Count())
	assert.True(t, bad.closed)
	assert.Equal(t, []string{EventStatus}, good.events)

	// The dropped sink no longer receives anything.
	hub.Broadcast(EventStatus, map[string]string{"action": "status"})
	assert.Equal(t, []string{EventStatus, EventStatus}, good.events)
	assert.Empty(t, bad.events)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(quietLogger())
	s := &fakeSink{id: "s"}
	hub.Register(s)

	hub.Unregister("s")
	hub.Unregister("s")
	assert.Equal(t, 0, hub.Count())
}

func TestCloseDrainsEverySink(t *testing.T) {
	hub := NewHub(quietLogger())
	a := &fakeSink{id: "a"}
	b := &fakeSink{id: "b"}
	hub.Register(a)
	hub.Register(b)

	hub.Close()

	assert.Equal(t, 0, hub.Count())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestSSESinkHeadersAndFraming(t *testing.T) {
	rec := httptest.NewRecorder()

	sink, err := NewSSESink(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	require.NoError(t, sink.Send("message", []byte(`{"n":1}`)))
	require.NoError(t, sink.Send("status", []byte(`{"ok":true}`)))

	body := rec.Body.String()
	assert.Contains(t, body, "event: message\ndata: {\"n\":1}\n\n")
	assert.Contains(t, body, "event: status\ndata: {\"ok\":true}\n\n")
	assert.True(t, rec.Flushed)
}

func TestSSESinkCloseReleasesDone(t *testing.T) {
	sink, err := NewSSESink(httptest.NewRecorder())
	require.NoError(t, err)

	select {
	case <-sink.Done():
		t.Fatal("done must stay open while the sink lives")
	default:
	}

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	select {
	case <-sink.Done():
	default:
		t.Fatal("done must be closed after Close")
	}
}

type noFlushWriter struct {
	header http.Header
}

func (n *noFlushWriter) Header() http.Header        { return n.header }
func (n *noFlushWriter) Write(b []byte) (int, error) { return len(b), nil }
func (n *noFlushWriter) WriteHeader(statusCode int) {}

func TestSSESinkRequiresFlusher(t *testing.T) {
	_, err := NewSSESink(&noFlushWriter{header: make(http.Header)})
	require.Error(t, err)
}
