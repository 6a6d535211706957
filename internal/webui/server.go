// Package webui serves the client's views over HTTP: the auth surface,
// the monitor list with its lifecycle endpoints, and the dashboard
// with a websocket snapshot stream. The route guard decides which of
// these a request may reach.
package webui

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/domain"
	"sitewatch/internal/lifecycle"
	"sitewatch/internal/poller"
	"sitewatch/internal/routeguard"
	"sitewatch/internal/session"
)

type Server struct {
	Logger   *zap.Logger
	Sessions *session.Manager
	Guard    *routeguard.Guard
	Coord    *lifecycle.Coordinator
	Poller   *poller.Poller
	Engine   *api.Client

	// delete flows in progress, keyed by monitor; the verify and
	// confirm steps arrive as separate requests
	deleteMu sync.Mutex
	deletes  map[domain.MonitorID]*lifecycle.DeleteFlow

	wsMu      sync.Mutex
	wsClients map[*wsClient]bool
}

func NewServer(l *zap.Logger, s *session.Manager, g *routeguard.Guard, c *lifecycle.Coordinator, p *poller.Poller, engine *api.Client) *Server {
	return &Server{
		Logger:    l,
		Sessions:  s,
		Guard:     g,
		Coord:     c,
		Poller:    p,
		Engine:    engine,
		deletes:   make(map[domain.MonitorID]*lifecycle.DeleteFlow),
		wsClients: make(map[*wsClient]bool),
	}
}

func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// auth surface
	r.Get(routeguard.PathAuth, s.guardView(s.handleAuthPage))
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/verify-email", s.handleVerifyEmail)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/session", s.handleSession)
	r.Get("/auth/health", s.handleAuthHealth)

	// views
	r.Get(routeguard.PathHome, s.guardView(s.handleHome))
	r.Get(routeguard.PathBoard, s.guardView(s.handleDashboard))
	r.Get("/ws", s.requireAuth(s.handleWebSocket))

	// lifecycle
	r.Post("/monitors", s.requireAuth(s.handleCreateMonitor))
	r.Patch("/monitors/{id}", s.requireAuth(s.handleEditMonitor))
	r.Post("/monitors/{id}/delete/verify", s.requireAuth(s.handleDeleteVerify))
	r.Post("/monitors/{id}/delete/confirm", s.requireAuth(s.handleDeleteConfirm))

	// scan + performance panels
	r.Post("/scan", s.requireAuth(s.handleScan))
	r.Get("/performance", s.requireAuth(s.handlePerformance))

	// anything else is routed by guard state
	r.NotFound(s.guardView(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routeguard.PathHome, http.StatusFound)
	}))

	return r
}

// guardView applies the route guard's decision to a view request:
// disallowed paths redirect to whichever surface the current state
// permits.
func (s *Server) guardView(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.Guard.Route(r.URL.Path)
		if !d.Allow {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}
		next(w, r)
	}
}

// requireAuth protects non-view endpoints that only make sense with a
// signed-in session.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Guard.State() != routeguard.StateAuthenticated {
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps the error taxonomy onto HTTP statuses: local
// validation 400, auth rejections 401, engine errors keep their
// status, transport failures 502.
func writeFailure(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Msg)
		return
	}
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		writeError(w, http.StatusUnauthorized, ae.Msg)
		return
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, apiErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
