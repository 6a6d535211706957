package lifecycle

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"sitewatch/internal/domain"
)

// Wizard steps, in order. No step may be skipped.
const (
	StepDetails = iota
	StepSchedule
	StepReview
)

// CreateWizard walks the three create steps: site details, monitoring
// schedule, read-only review. Navigation is back-navigable; Submit
// re-validates everything regardless of how the steps were walked.
type CreateWizard struct {
	api    MonitorAPI
	logger *zap.Logger
	user   *domain.User

	step int
	done bool

	SiteName string
	SiteURL  string
	Interval int
}

func (w *CreateWizard) Step() int  { return w.step }
func (w *CreateWizard) Done() bool { return w.done }

// Next validates the current step and advances.
func (w *CreateWizard) Next() error {
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back returns to the previous step without validating.
func (w *CreateWizard) Back() {
	if w.step > StepDetails {
		w.step--
	}
}

func (w *CreateWizard) validateStep(step int) error {
	switch step {
	case StepDetails:
		if strings.TrimSpace(w.SiteName) == "" {
			return domain.Invalid("Site name is required")
		}
		if strings.TrimSpace(w.SiteURL) == "" {
			return domain.Invalid("Site URL is required")
		}
		if !isParsableURL(w.SiteURL) {
			return domain.Invalid("Please enter a valid URL")
		}
	case StepSchedule:
		if w.Interval == 0 {
			return domain.Invalid("Monitoring interval is required")
		}
	}
	return nil
}

// Submit resolves the acting user, re-validates every field and only
// then issues the create request. On success the wizard enters its
// done state; the caller navigates away.
func (w *CreateWizard) Submit(ctx context.Context) error {
	if w.user == nil || w.user.ID == 0 {
		return domain.Invalid("User ID not found. Please login again.")
	}

	name := strings.TrimSpace(w.SiteName)
	siteURL := strings.TrimSpace(w.SiteURL)
	if name == "" {
		return domain.Invalid("Site name is required and cannot be empty")
	}
	if siteURL == "" {
		return domain.Invalid("Site URL is required and cannot be empty")
	}
	if !strings.HasPrefix(siteURL, "http://") && !strings.HasPrefix(siteURL, "https://") {
		return domain.Invalid("URL must start with http:// or https://")
	}
	if w.Interval <= 0 {
		return domain.Invalid("Valid monitoring interval is required")
	}
	if w.Interval < domain.MinInterval {
		return domain.Invalid("Interval too low. Free users must have at least 300 seconds.")
	}

	if err := w.api.CreateMonitor(ctx, w.user.ID, name, siteURL, w.Interval); err != nil {
		return err
	}
	w.done = true
	w.logger.Info("monitor_created",
		zap.Int64("user_id", w.user.ID),
		zap.String("site_url", siteURL),
		zap.Int("interval", w.Interval),
	)
	return nil
}

func isParsableURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
