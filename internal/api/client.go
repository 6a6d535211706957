package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitewatch/internal/domain"
)

// Client talks to the monitoring engine's REST API. Every call site
// gets either a decoded value or an error carrying a display-ready
// message; nothing here panics or retries.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// AuthResponse is the common envelope of the /auth endpoints.
type AuthResponse struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	User       *domain.User `json:"user,omitempty"`
	UserID     int64        `json:"user_id,omitempty"`
	OTPExpires string       `json:"otp_expires,omitempty"`
}

// ---- dashboard resources ----

func (c *Client) Website(ctx context.Context, monitor domain.MonitorID) (*domain.Website, error) {
	var out domain.Website
	if err := c.get(ctx, "/website", monitorQuery(monitor), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context, monitor domain.MonitorID) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.get(ctx, "/stats", monitorQuery(monitor), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Checks(ctx context.Context, monitor domain.MonitorID) ([]domain.Check, error) {
	var out []domain.Check
	if err := c.get(ctx, "/checks", monitorQuery(monitor), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SSLCert(ctx context.Context, monitor domain.MonitorID) (*domain.SSLCert, error) {
	var out domain.SSLCert
	if err := c.get(ctx, "/ssl-cert", monitorQuery(monitor), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Performance(ctx context.Context, siteURL, strategy string) (*domain.PerformanceSample, error) {
	q := url.Values{}
	q.Set("url", siteURL)
	q.Set("strategy", strategy)
	var out domain.PerformanceSample
	if err := c.get(ctx, "/performance", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkScan runs an ad-hoc broken-link crawl. An empty startURL is
// omitted so the engine falls back to the monitored site.
func (c *Client) LinkScan(ctx context.Context, startURL string, maxPages int) (*domain.ScanResult, error) {
	q := url.Values{}
	if startURL != "" {
		q.Set("start_url", startURL)
	}
	q.Set("max_pages", strconv.Itoa(maxPages))
	var out domain.ScanResult
	if err := c.get(ctx, "/linkscan", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- auth ----

func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, email, otp string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "otp": otp}
	var out AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/verify-email", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthHealth is a best-effort probe. It never returns an error: any
// failure comes back as an unhealthy status.
func (c *Client) AuthHealth(ctx context.Context) domain.HealthStatus {
	var out domain.HealthStatus
	if err := c.get(ctx, "/auth/health", nil, &out); err != nil {
		return domain.HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	return out
}

// ---- monitors ----

type createMonitorRequest struct {
	UserID  int64          `json:"user_id"`
	Monitor monitorPayload `json:"monitor"`
}

type monitorPayload struct {
	SiteName       string `json:"sitename"`
	SiteURL        string `json:"site_url"`
	MonitorCreated string `json:"monitor_created"`
	Interval       int    `json:"interval"`
}

func (c *Client) CreateMonitor(ctx context.Context, userID int64, siteName, siteURL string, interval int) error {
	body := createMonitorRequest{
		UserID: userID,
		Monitor: monitorPayload{
			SiteName:       siteName,
			SiteURL:        siteURL,
			MonitorCreated: domain.NowISO(),
			Interval:       interval,
		},
	}
	return c.send(ctx, http.MethodPost, "/monitors/create", body, nil)
}

func (c *Client) EditMonitor(ctx context.Context, id domain.MonitorID, siteName, siteURL string, interval int) error {
	body := map[string]any{
		"monitor_id": id,
		"sitename":   siteName,
		"site_url":   siteURL,
		"interval":   interval,
	}
	return c.send(ctx, http.MethodPatch, "/monitors/edit", body, nil)
}

func (c *Client) DeleteMonitor(ctx context.Context, userID int64, id domain.MonitorID) error {
	body := map[string]any{"user_id": userID, "monitor_id": id}
	return c.send(ctx, http.MethodPost, "/monitors/delete", body, nil)
}

func (c *Client) Monitors(ctx context.Context) ([]domain.Monitor, error) {
	var out []domain.Monitor
	if err := c.get(ctx, "/monitors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserMonitors(ctx context.Context, userID int64) ([]domain.Monitor, error) {
	var out []domain.Monitor
	path := fmt.Sprintf("/monitors/user/%d", userID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- plumbing ----

func monitorQuery(id domain.MonitorID) url.Values {
	if id == 0 {
		return nil
	}
	q := url.Values{}
	q.Set("monitor", strconv.FormatInt(int64(id), 10))
	return q
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Warn("api_request_failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("api_request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Float64("latency_ms", time.Since(start).Seconds()*1000),
	)

	if resp.StatusCode/100 != 2 {
		var envelope struct {
			Detail ErrorPayload `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Payload: envelope.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
