package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zaprelay/internal/errors"
	"zaprelay/internal/events"
	"zaprelay/internal/middleware"
	"zaprelay/internal/models"
	"zaprelay/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg    *models.Config
	router *mux.Router
	logger *logrus.Logger
	relay  *service.Relay
	hub    *events.Hub
	server *http.Server
}

func NewServer(cfg *models.Config, relay *service.Relay, hub *events.Hub, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		logger: logger,
		relay:  relay,
		hub:    hub,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check and metrics
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	// Gateway webhook; GET answers the upstream's verification handshake
	s.router.HandleFunc("/webhook/{gateway}", s.handleWebhook()).Methods(http.MethodGet, http.MethodPost)

	api := s.router.PathPrefix("/api/{gateway}").Subrouter()

	api.HandleFunc("/conversations", s.handleListConversations()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{number}/messages", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{number}/read", s.handleMarkRead()).Methods(http.MethodPost)

	api.HandleFunc("/messages/text", s.handleSendText()).Methods(http.MethodPost)
	api.HandleFunc("/messages/file", s.handleSendFile()).Methods(http.MethodPost)
	api.HandleFunc("/messages/image", s.handleSendImage()).Methods(http.MethodPost)
	api.HandleFunc("/messages/buttons", s.handleSendButtons()).Methods(http.MethodPost)
	api.HandleFunc("/messages/list", s.handleSendList()).Methods(http.MethodPost)

	api.HandleFunc("/status", s.handleSession("status")).Methods(http.MethodGet)
	api.HandleFunc("/qrcode", s.handleSession("qrcode")).Methods(http.MethodGet)
	api.HandleFunc("/session/reconnect", s.handleSession("reconnect")).Methods(http.MethodPost)
	api.HandleFunc("/session/disconnect", s.handleSession("disconnect")).Methods(http.MethodPost)

	api.HandleFunc("/events", s.handleEvents()).Methods(http.MethodGet)
	api.HandleFunc("/events/ws", s.handleEventsWS()).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, errors.NewNotFoundError("route", r.Method+" "+r.URL.Path))
	})
	s.router.MethodNotAllowedHandler = s.router.NotFoundHandler
}

// Handler assembles the middleware chain around the router. CORS sits
// outermost so every response, including 404s and preflights, carries the
// cross-origin headers.
func (s *Server) Handler() http.Handler {
	chain := middleware.Observability(s.logger)(s.router)
	chain = middleware.Recovery(s.logger)(chain)
	chain = middleware.CORS(s.cfg.Server.AllowedOrigins)(chain)
	return chain
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%s", s.cfg.Server.Port),
		Handler:     s.Handler(),
		ReadTimeout: time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		IdleTimeout: time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
		// No WriteTimeout: the event stream stays open indefinitely.
	}

	s.logger.Infof("Starting server on port %s", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{
		"success": false,
		"message": err.Error(),
	}
	if appErr, ok := err.(*errors.AppError); ok {
		body["message"] = appErr.Message
		if details := errors.Details(err); details != nil {
			body["details"] = details
		}
	}
	s.writeJSON(w, errors.HTTPStatusCode(err), body)
}
