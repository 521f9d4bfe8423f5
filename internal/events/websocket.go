package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to the peer.
	writeWait = 10 * time.Second
	// pongWait is how long we keep a connection that stops answering pings.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer is the per-subscriber outbound queue; a client that cannot
	// drain it is dropped rather than blocking the broadcaster.
	sendBuffer = 256
)

// wsFrame is the JSON envelope written to websocket subscribers.
type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSSink adapts a websocket connection to the hub. Frames are queued on a
// buffered channel and written by a single pump goroutine; the ping/pong
// keepalive evicts half-open connections that never signal closure.
type WSSink struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// ServeWS registers a websocket connection with the hub and starts its pumps.
// It returns immediately; the sink unregisters itself when the connection
// dies.
func ServeWS(hub *Hub, conn *websocket.Conn) *WSSink {
	s := &WSSink{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	hub.Register(s)

	go s.writePump()
	go s.readPump()

	return s
}

func (s *WSSink) ID() string {
	return s.id
}

func (s *WSSink) Send(event string, data []byte) error {
	frame, err := json.Marshal(wsFrame{Event: event, Data: data})
	if err != nil {
		return err
	}

	select {
	case s.send <- frame:
		return nil
	case <-s.done:
		return fmt.Errorf("subscriber closed")
	default:
		return fmt.Errorf("subscriber send buffer full")
	}
}

// Close is safe to call from multiple goroutines; the broadcast failure path,
// readPump's cleanup and Hub.Close can all race here.
func (s *WSSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return s.conn.Close()
}

// readPump discards inbound frames; it exists to process control messages
// and to notice the close handshake.
func (s *WSSink) readPump() {
	defer func() {
		s.hub.Unregister(s.id)
		_ = s.Close()
	}()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *WSSink) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
