package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"sitewatch/internal/domain"
)

// Delete steps. Verification must pass before the confirmation step is
// reachable; only confirming actually deletes.
const (
	StepVerify = iota + 1
	StepConfirm
)

// DeleteFlow is the irreversible two-step delete: re-enter credentials,
// then explicitly confirm. A mismatched email or failed verification
// keeps the flow on step one.
type DeleteFlow struct {
	api      MonitorAPI
	verifier CredentialVerifier
	logger   *zap.Logger
	user     *domain.User
	monitor  domain.Monitor
	step     int
}

func (d *DeleteFlow) Step() int { return d.step }

// Verify checks the re-entered credentials. The email must exactly
// match the signed-in account and the verification call must succeed.
func (d *DeleteFlow) Verify(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.Invalid("Please enter both email and password")
	}
	if d.user == nil || email != d.user.Email {
		return domain.Invalid("Email does not match your account")
	}
	resp, err := d.verifier.Login(ctx, email, password)
	if err != nil || !resp.Success {
		return &domain.AuthError{Msg: "Invalid credentials. Please check your email and password."}
	}
	d.step = StepConfirm
	return nil
}

// Confirm issues the delete and returns the monitor list refreshed
// from the server. The displayed list is never spliced locally, so it
// cannot drift from server truth after a partial failure.
func (d *DeleteFlow) Confirm(ctx context.Context) ([]domain.Monitor, error) {
	if d.step != StepConfirm {
		return nil, domain.Invalid("Verification required before deleting")
	}
	var userID int64
	if d.user != nil {
		userID = d.user.ID
	}
	if err := d.api.DeleteMonitor(ctx, userID, d.monitor.ID); err != nil {
		return nil, err
	}
	d.logger.Info("monitor_deleted",
		zap.Int64("user_id", userID),
		zap.Int64("monitor_id", int64(d.monitor.ID)),
	)
	if userID != 0 {
		return d.api.UserMonitors(ctx, userID)
	}
	return d.api.Monitors(ctx)
}
