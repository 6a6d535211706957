package webui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sitewatch/internal/domain"
	"sitewatch/internal/metrics"
	"sitewatch/internal/routeguard"
	"sitewatch/internal/scanparam"
)

// ---- auth ----

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	OTP      string `json:"otp,omitempty"`
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"view":  "auth",
		"state": s.Guard.State().String(),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	resp, err := s.Sessions.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	user, err := s.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.Guard.OnLogin()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	resp, err := s.Sessions.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Logout(r.Context())
	s.Guard.OnLogout()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state": s.Guard.State().String(),
		"user":  s.Sessions.CurrentUser(r.Context()),
	})
}

func (s *Server) handleAuthHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.CheckHealth(r.Context()))
}

// ---- views ----

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := s.Sessions.CurrentUser(r.Context())
	monitors, err := s.Coord.List(r.Context(), user)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": "home", "monitors": monitors})
}

// handleDashboard returns the held snapshot. A monitor query parameter
// switches the poller's context.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("monitor"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad monitor id")
			return
		}
		s.Poller.SetMonitor(domain.MonitorID(id))
	}
	snap := s.Poller.Held()
	writeJSON(w, http.StatusOK, map[string]any{
		"view":     "dashboard",
		"website":  snap.Website,
		"stats":    snap.Stats,
		"checks":   snap.Checks,
		"ssl_cert": snap.SSLCert,
	})
}

// ---- lifecycle ----

type monitorRequest struct {
	SiteName string `json:"sitename"`
	SiteURL  string `json:"site_url"`
	Interval int    `json:"interval"`
}

// handleCreateMonitor walks the wizard through its steps so the
// no-step-skipped validation runs even for a single-shot API call.
func (s *Server) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	var req monitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	user := s.Sessions.CurrentUser(r.Context())

	wiz := s.Coord.NewCreate(user)
	wiz.SiteName = req.SiteName
	wiz.SiteURL = req.SiteURL
	wiz.Interval = req.Interval
	for wiz.Step() < 2 {
		if err := wiz.Next(); err != nil {
			writeFailure(w, err)
			return
		}
	}
	if err := wiz.Submit(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "redirect": routeguard.PathHome})
}

func (s *Server) handleEditMonitor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad monitor id")
		return
	}
	var req monitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}

	form := s.Coord.NewEdit(domain.Monitor{ID: domain.MonitorID(id)})
	form.SiteName = req.SiteName
	form.SiteURL = req.SiteURL
	form.Interval = req.Interval
	if err := form.Submit(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	// no local list mutation; the caller refetches
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteVerify(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad monitor id")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}

	user := s.Sessions.CurrentUser(r.Context())
	flow := s.Coord.NewDelete(user, domain.Monitor{ID: domain.MonitorID(id)})
	if err := flow.Verify(r.Context(), req.Email, req.Password); err != nil {
		writeFailure(w, err)
		return
	}

	s.deleteMu.Lock()
	s.deletes[domain.MonitorID(id)] = flow
	s.deleteMu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"step": flow.Step()})
}

func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad monitor id")
		return
	}

	s.deleteMu.Lock()
	flow := s.deletes[domain.MonitorID(id)]
	s.deleteMu.Unlock()
	if flow == nil {
		writeError(w, http.StatusBadRequest, "verification required before deleting")
		return
	}

	monitors, err := flow.Confirm(r.Context())
	if err != nil {
		// flow stays open, list untouched
		writeFailure(w, err)
		return
	}

	s.deleteMu.Lock()
	delete(s.deletes, domain.MonitorID(id))
	s.deleteMu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "monitors": monitors})
}

// ---- scan + performance ----

type scanRequest struct {
	StartURL string `json:"start_url"`
	// the two redundant widgets, exactly as the panel last saw them
	MaxPagesText   string `json:"max_pages_text"`
	MaxPagesSlider int    `json:"max_pages_slider"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}

	n := scanparam.New()
	if req.MaxPagesSlider != 0 {
		n.SetSlider(req.MaxPagesSlider)
	}
	n.SetText(req.MaxPagesText)
	maxPages := n.Effective()

	result, err := s.Engine.LinkScan(r.Context(), req.StartURL, maxPages)
	if err != nil {
		writeFailure(w, err)
		return
	}
	metrics.ScansRun.Inc()
	s.Logger.Info("scan_done",
		zap.String("start_url", result.StartURL),
		zap.Int("max_pages", maxPages),
		zap.Int("broken", result.BrokenCount),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	strategy := q.Get("strategy")
	if strategy != "mobile" && strategy != "desktop" {
		writeError(w, http.StatusBadRequest, "strategy must be mobile or desktop")
		return
	}
	sample, err := s.Engine.Performance(r.Context(), q.Get("url"), strategy)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}
