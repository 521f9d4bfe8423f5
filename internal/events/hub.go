package events

import (
	"encoding/json"
	"sync"

	"zaprelay/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Event names pushed to live subscribers.
const (
	EventInit         = "init"
	EventMessage      = "message"
	EventConversation = "conversation"
	EventStatus       = "status"
)

// Sink is one live subscriber connection. Send must be safe to call from the
// broadcasting goroutine; an error from Send is treated as a disconnect.
type Sink interface {
	ID() string
	Send(event string, data []byte) error
	Close() error
}

// Hub fans events out to every registered sink. Delivery is best effort:
// at most once, no buffering for disconnected clients, no replay.
type Hub struct {
	mu     sync.RWMutex
	sinks  map[string]Sink
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		sinks:  make(map[string]Sink),
		logger: logger,
	}
}

func (h *Hub) Register(s Sink) {
	h.mu.Lock()
	h.sinks[s.ID()] = s
	count := len(h.sinks)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"subscriber_id": s.ID(),
		"subscribers":   count,
	}).Info("Event subscriber connected")
	metrics.SetGauge("event_subscribers", float64(count), nil, "Currently connected event subscribers")
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	_, ok := h.sinks[id]
	if ok {
		delete(h.sinks, id)
	}
	count := len(h.sinks)
	h.mu.Unlock()

	if ok {
		h.logger.WithFields(logrus.Fields{
			"subscriber_id": id,
			"subscribers":   count,
		}).Info("Event subscriber disconnected")
		metrics.SetGauge("event_subscribers", float64(count), nil, "Currently connected event subscribers")
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

// Broadcast serializes the payload once and delivers it to every sink.
// A failed write is logged, the sink is dropped, and delivery to the
// remaining sinks continues.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("Failed to serialize event payload")
		return
	}

	h.mu.RLock()
	targets := make([]Sink, 0, len(h.sinks))
	for _, s := range h.sinks {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(event, data); err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"event":         event,
				"subscriber_id": s.ID(),
			}).Warn("Event delivery failed, dropping subscriber")
			h.Unregister(s.ID())
			_ = s.Close()
		}
	}

	metrics.IncrementCounter("events_broadcast_total", map[string]string{"event": event}, "Events broadcast to subscribers")
}

// Close drops and closes every sink. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	sinks := h.sinks
	h.sinks = make(map[string]Sink)
	h.mu.Unlock()

	for _, s := range sinks {
		_ = s.Close()
	}
}
