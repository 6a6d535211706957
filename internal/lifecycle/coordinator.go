// Package lifecycle orchestrates monitor mutations: the three-step
// create wizard, validated edits, and the re-authenticated two-step
// delete. No operation here mutates a cached list; callers always
// refetch server truth after a confirmed change.
package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/domain"
)

// MonitorAPI is the slice of the engine API the coordinator drives.
// *api.Client satisfies it.
type MonitorAPI interface {
	CreateMonitor(ctx context.Context, userID int64, siteName, siteURL string, interval int) error
	EditMonitor(ctx context.Context, id domain.MonitorID, siteName, siteURL string, interval int) error
	DeleteMonitor(ctx context.Context, userID int64, id domain.MonitorID) error
	Monitors(ctx context.Context) ([]domain.Monitor, error)
	UserMonitors(ctx context.Context, userID int64) ([]domain.Monitor, error)
}

// CredentialVerifier re-checks the account holder's credentials before
// a destructive operation. A login attempt serves as verification.
type CredentialVerifier interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
}

type Coordinator struct {
	API      MonitorAPI
	Verifier CredentialVerifier
	Logger   *zap.Logger
}

func NewCoordinator(monitorAPI MonitorAPI, verifier CredentialVerifier, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{API: monitorAPI, Verifier: verifier, Logger: logger}
}

// List fetches the monitor collection, preferring the per-user view
// when the acting user is known.
func (c *Coordinator) List(ctx context.Context, user *domain.User) ([]domain.Monitor, error) {
	if user != nil && user.ID != 0 {
		return c.API.UserMonitors(ctx, user.ID)
	}
	return c.API.Monitors(ctx)
}

func (c *Coordinator) NewCreate(user *domain.User) *CreateWizard {
	return &CreateWizard{api: c.API, logger: c.Logger, user: user, Interval: domain.MinInterval}
}

func (c *Coordinator) NewEdit(m domain.Monitor) *EditForm {
	f := &EditForm{api: c.API, logger: c.Logger, monitor: m}
	f.SiteName = m.SiteName
	f.SiteURL = m.SiteURL
	f.Interval = m.Interval
	if f.Interval == 0 {
		f.Interval = domain.MinInterval
	}
	return f
}

func (c *Coordinator) NewDelete(user *domain.User, m domain.Monitor) *DeleteFlow {
	return &DeleteFlow{
		api:      c.API,
		verifier: c.Verifier,
		logger:   c.Logger,
		user:     user,
		monitor:  m,
		step:     StepVerify,
	}
}
