package main

import (
	"encoding/json"
	"net/http"

	"zaprelay/internal/errors"
	"zaprelay/internal/events"
	"zaprelay/internal/models"
	"zaprelay/internal/service"
	"zaprelay/pkg/zapi/types"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}
}

func (s *Server) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Upstream verification handshake
			s.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": "ok"})
			return
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, errors.NewBadPayloadError(err))
			return
		}

		// Past the parse, ingestion is in-memory and effectively infallible;
		// the upstream always gets its acknowledgement.
		s.relay.ProcessInbound(r.Context(), payload)
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

func (s *Server) handleListConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"conversations": s.relay.Conversations(),
		})
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := mux.Vars(r)["number"]
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"messages": s.relay.Messages(number),
		})
	}
}

func (s *Server) handleMarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := mux.Vars(r)["number"]
		conv, err := s.relay.MarkRead(number)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"conversation": conv,
		})
	}
}

func (s *Server) sendHandler(send func(r *http.Request) (*service.SendResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := send(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"conversation": result.Conversation,
			"message":      result.Message,
			"upstream":     result.Upstream,
		})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadPayloadError(err)
	}
	return nil
}

func (s *Server) handleSendText() http.HandlerFunc {
	return s.sendHandler(func(r *http.Request) (*service.SendResult, error) {
		var req models.SendTextRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return s.relay.SendText(r.Context(), req)
	})
}

func (s *Server) handleSendFile() http.HandlerFunc {
	return s.sendHandler(func(r *http.Request) (*service.SendResult, error) {
		var req models.SendFileRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return s.relay.SendFile(r.Context(), req)
	})
}

func (s *Server) handleSendImage() http.HandlerFunc {
	return s.sendHandler(func(r *http.Request) (*service.SendResult, error) {
		var req models.SendImageRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return s.relay.SendImage(r.Context(), req)
	})
}

func (s *Server) handleSendButtons() http.HandlerFunc {
	return s.sendHandler(func(r *http.Request) (*service.SendResult, error) {
		var req models.SendButtonsRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return s.relay.SendButtons(r.Context(), req)
	})
}

func (s *Server) handleSendList() http.HandlerFunc {
	return s.sendHandler(func(r *http.Request) (*service.SendResult, error) {
		var req models.SendListRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return s.relay.SendList(r.Context(), req)
	})
}

func (s *Server) handleSession(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp *types.GatewayResponse
		var err error

		switch action {
		case "status":
			resp, err = s.relay.Status(r.Context())
		case "qrcode":
			resp, err = s.relay.QRCode(r.Context())
		case "reconnect":
			resp, err = s.relay.Reconnect(r.Context())
		case "disconnect":
			resp, err = s.relay.Disconnect(r.Context())
		}
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    resp.Body,
		})
	}
}

// handleEvents serves the server-sent event stream. The connection stays open
// until the client goes away; the request context signals closure.
func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sink, err := events.NewSSESink(w)
		if err != nil {
			s.writeError(w, errors.Wrap(err, errors.ErrCodeInternalError, "streaming unsupported"))
			return
		}

		s.hub.Register(sink)
		defer s.hub.Unregister(sink.ID())

		init, err := json.Marshal(map[string]interface{}{
			"conversations": s.relay.Conversations(),
		})
		if err == nil {
			if err := sink.Send(events.EventInit, init); err != nil {
				return
			}
		}

		// Block until the client goes away or the hub drops the sink
		// (failed write or server shutdown).
		select {
		case <-r.Context().Done():
		case <-sink.Done():
		}
	}
}

func (s *Server) upgrader() websocket.Upgrader {
	allowed := make(map[string]bool, len(s.cfg.Server.AllowedOrigins))
	wildcard := len(s.cfg.Server.AllowedOrigins) == 0
	for _, origin := range s.cfg.Server.AllowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if wildcard {
				return true
			}
			return allowed[r.Header.Get("Origin")]
		},
	}
}

// handleEventsWS serves the websocket variant of the event stream.
func (s *Server) handleEventsWS() http.HandlerFunc {
	upgrader := s.upgrader()
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.WithError(err).Warn("WebSocket upgrade failed")
			return
		}

		sink := events.ServeWS(s.hub, conn)

		init, err := json.Marshal(map[string]interface{}{
			"conversations": s.relay.Conversations(),
		})
		if err == nil {
			if err := sink.Send(events.EventInit, init); err != nil {
				s.logger.WithFields(logrus.Fields{
					"subscriber_id": sink.ID(),
				}).Warn("Failed to deliver init event")
			}
		}
	}
}
