package domain

import "time"

type MonitorID int64

// User is the account record returned by the auth endpoints and cached
// in the session store.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Monitor is one tracked website owned by a user. Interval is in
// seconds; free accounts may not go below MinInterval.
type Monitor struct {
	ID        MonitorID `json:"id"`
	SiteName  string    `json:"sitename"`
	SiteURL   string    `json:"site_url"`
	Interval  int       `json:"interval"`
	Status    string    `json:"status,omitempty"`
	CreatedAt string    `json:"monitor_created,omitempty"`
	OwnerID   int64     `json:"user_id,omitempty"`
}

// MinInterval is the free-tier floor for monitor check intervals.
const MinInterval = 300

// Check is one historical observation produced by the monitoring
// engine. Server-produced, immutable, delivered most-recent-first.
type Check struct {
	ID           int64    `json:"id"`
	Timestamp    string   `json:"timestamp"`
	IsUp         bool     `json:"is_up"`
	ResponseTime *float64 `json:"response_time"` // pointer to allow nil
	StatusCode   *int     `json:"status_code"`   // pointer to allow nil
	ErrorMessage *string  `json:"error_message"`
}

type Website struct {
	URL            string `json:"url"`
	MonitorCreated string `json:"monitor_created"`
}

type Stats struct {
	UptimePercentage    float64 `json:"uptime_percentage"`
	TotalChecks         int     `json:"total_checks"`
	SuccessfulChecks    int     `json:"successful_checks"`
	AverageResponseTime float64 `json:"average_response_time"`
}

type SSLCert struct {
	ValidFrom string `json:"valid_from"`
	ValidTill string `json:"valid_till"`
	DaysLeft  int    `json:"days_left"`
	Expired   bool   `json:"cert_exp"`
}

// BrokenLink is one failing link found by a scan, with the page it was
// discovered on.
type BrokenLink struct {
	SourcePage string  `json:"source_page"`
	Link       string  `json:"link"`
	StatusCode *int    `json:"status_code"`
	Error      *string `json:"error"`
}

// ScanResult is the outcome of an ad-hoc broken-link crawl. It is held
// only by the view that triggered the scan and is never persisted.
type ScanResult struct {
	StartURL          string       `json:"start_url"`
	MaxPages          int          `json:"max_pages"`
	ScannedCount      int          `json:"scanned_count"`
	TotalLinksChecked int          `json:"total_links_checked"`
	OKCount           int          `json:"ok_count"`
	BrokenCount       int          `json:"broken_count"`
	SkippedNonHTTP    int          `json:"skipped_non_http"`
	DurationMS        int64        `json:"duration_ms"`
	ScannedPages      []string     `json:"scanned_pages"`
	Broken            []BrokenLink `json:"broken"`
}

type PerformanceMetrics struct {
	FCP string `json:"FCP"`
	LCP string `json:"LCP"`
	TBT string `json:"TBT"`
	CLS string `json:"CLS"`
}

// PerformanceSample is one Lighthouse-style score for a (url, strategy)
// pair. Ephemeral, one per card.
type PerformanceSample struct {
	Score   int                `json:"performance_score"`
	Metrics PerformanceMetrics `json:"metrics"`
}

// HealthStatus is the auth service probe result. A failed probe is
// reported here, never as an error.
type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NowISO is the timestamp format sent in create payloads.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }
