package lifecycle

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sitewatch/internal/domain"
)

// EditForm holds the target monitor loaded for editing. Submitting
// issues a partial update; the caller refetches the list afterwards —
// nothing cached is touched here.
type EditForm struct {
	api     MonitorAPI
	logger  *zap.Logger
	monitor domain.Monitor

	SiteName string
	SiteURL  string
	Interval int

	// Warning is the soft notice shown while the typed interval sits
	// below the free-tier floor. It does not block typing.
	Warning string
}

// SetIntervalText parses a typed interval, stripping leading zeros the
// way the form input does, and refreshes the floor warning.
func (f *EditForm) SetIntervalText(text string) {
	sanitized := strings.TrimLeft(strings.TrimSpace(text), "0")
	if sanitized == "" {
		sanitized = "0"
	}
	n, err := strconv.Atoi(sanitized)
	if err != nil {
		return
	}
	f.Interval = n
	if n < domain.MinInterval {
		f.Warning = "Free users cannot set interval less than 300 seconds."
	} else {
		f.Warning = ""
	}
}

// Submit validates and issues the patch.
func (f *EditForm) Submit(ctx context.Context) error {
	if strings.TrimSpace(f.SiteName) == "" || strings.TrimSpace(f.SiteURL) == "" {
		return domain.Invalid("Please fill all fields.")
	}
	if f.Interval < domain.MinInterval {
		return domain.Invalid("Interval too low. Free users must have at least 300 seconds.")
	}
	if err := f.api.EditMonitor(ctx, f.monitor.ID, f.SiteName, f.SiteURL, f.Interval); err != nil {
		return err
	}
	f.logger.Info("monitor_edited",
		zap.Int64("monitor_id", int64(f.monitor.ID)),
		zap.Int("interval", f.Interval),
	)
	return nil
}
