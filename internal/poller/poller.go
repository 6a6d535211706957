// Package poller keeps one coherent dashboard snapshot in sync with
// the monitoring engine: four independent resources fetched as a batch
// on a fixed cadence and on every monitor-context change.
package poller

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sitewatch/internal/domain"
	"sitewatch/internal/metrics"
)

// Fetcher is the slice of the engine API one poll cycle needs.
// *api.Client satisfies it.
type Fetcher interface {
	Website(ctx context.Context, monitor domain.MonitorID) (*domain.Website, error)
	Stats(ctx context.Context, monitor domain.MonitorID) (*domain.Stats, error)
	Checks(ctx context.Context, monitor domain.MonitorID) ([]domain.Check, error)
	SSLCert(ctx context.Context, monitor domain.MonitorID) (*domain.SSLCert, error)
}

// Snapshot is the joined state of one successful poll cycle. The four
// values are committed together; a failed cycle commits none of them.
type Snapshot struct {
	Website *domain.Website
	Stats   *domain.Stats
	Checks  []domain.Check
	SSLCert *domain.SSLCert
}

type Poller struct {
	Logger   *zap.Logger
	Fetch    Fetcher
	Interval time.Duration
	Timeout  time.Duration

	// OnSnapshot fires after a cycle that changed at least one
	// resource. OnError fires once per failed cycle with the
	// aggregated batch error.
	OnSnapshot func(Snapshot)
	OnError    func(error)

	mu      sync.Mutex
	gen     uint64
	monitor domain.MonitorID
	held    Snapshot

	switchCh chan domain.MonitorID
}

func New(logger *zap.Logger, fetch Fetcher, interval, timeout time.Duration) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Poller{
		Logger:   logger,
		Fetch:    fetch,
		Interval: interval,
		Timeout:  timeout,
		switchCh: make(chan domain.MonitorID, 1),
	}
}

// Run starts the loop: an immediate cycle, then one per tick, until
// ctx is cancelled. Context switches requested through SetMonitor
// reset the cadence and trigger an immediate cycle.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("poller_stopped")
			return
		case id := <-p.switchCh:
			p.switchContext(id)
			t.Reset(p.Interval)
			p.runCycle(ctx)
		case <-t.C:
			p.runCycle(ctx)
		}
	}
}

// SetMonitor changes the selected monitor context. The held snapshot
// is dropped and any cycle still in flight for the old context will
// not be committed. Re-selecting the current monitor is a no-op: the
// snapshot stays held and the cadence is not reset.
func (p *Poller) SetMonitor(id domain.MonitorID) {
	p.mu.Lock()
	same := p.monitor == id
	p.mu.Unlock()
	if same {
		return
	}
	select {
	case p.switchCh <- id:
	default:
		// a pending switch is already queued; replace it
		select {
		case <-p.switchCh:
		default:
		}
		p.switchCh <- id
	}
}

func (p *Poller) switchContext(id domain.MonitorID) {
	p.mu.Lock()
	if p.monitor == id {
		// a queued switch can arrive after the context already moved
		p.mu.Unlock()
		return
	}
	p.gen++
	p.monitor = id
	p.held = Snapshot{}
	p.mu.Unlock()
	p.Logger.Info("poll_context_switch", zap.Int64("monitor", int64(id)))
}

// Held returns the last committed snapshot.
func (p *Poller) Held() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held
}

func (p *Poller) runCycle(ctx context.Context) {
	p.mu.Lock()
	gen := p.gen
	id := p.monitor
	p.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var (
		website *domain.Website
		stats   *domain.Stats
		checks  []domain.Check
		cert    *domain.SSLCert

		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  error
	)
	fail := func(err error) {
		errMu.Lock()
		errs = multierr.Append(errs, err)
		errMu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		v, err := p.Fetch.Website(cctx, id)
		if err != nil {
			fail(err)
			return
		}
		website = v
	}()
	go func() {
		defer wg.Done()
		v, err := p.Fetch.Stats(cctx, id)
		if err != nil {
			fail(err)
			return
		}
		stats = v
	}()
	go func() {
		defer wg.Done()
		v, err := p.Fetch.Checks(cctx, id)
		if err != nil {
			fail(err)
			return
		}
		checks = v
	}()
	go func() {
		defer wg.Done()
		v, err := p.Fetch.SSLCert(cctx, id)
		if err != nil {
			fail(err)
			return
		}
		cert = v
	}()
	wg.Wait()

	// All-or-nothing: one failed fetch aborts the whole cycle and
	// retains whatever earlier cycles committed.
	if errs != nil {
		metrics.PollCycles.WithLabelValues("failed").Inc()
		p.Logger.Warn("poll_cycle_failed",
			zap.Int64("monitor", int64(id)),
			zap.Error(errs),
		)
		if p.OnError != nil {
			p.OnError(errs)
		}
		return
	}

	fresh := Snapshot{Website: website, Stats: stats, Checks: checks, SSLCert: cert}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		p.Logger.Debug("poll_stale_dropped", zap.Int64("monitor", int64(id)))
		return
	}
	changed := p.commitLocked(fresh)
	snap := p.held
	p.mu.Unlock()

	metrics.PollCycles.WithLabelValues("ok").Inc()
	if changed && p.OnSnapshot != nil {
		p.OnSnapshot(snap)
	}
}

// commitLocked writes each fresh value only when it is not
// structurally equal to the held one, so unchanged resources cause no
// downstream churn. Caller holds p.mu.
func (p *Poller) commitLocked(fresh Snapshot) bool {
	changed := false
	if !reflect.DeepEqual(fresh.Website, p.held.Website) {
		p.held.Website = fresh.Website
		metrics.PollCommits.WithLabelValues("website").Inc()
		changed = true
	}
	if !reflect.DeepEqual(fresh.Stats, p.held.Stats) {
		p.held.Stats = fresh.Stats
		metrics.PollCommits.WithLabelValues("stats").Inc()
		changed = true
	}
	if !reflect.DeepEqual(fresh.Checks, p.held.Checks) {
		p.held.Checks = fresh.Checks
		metrics.PollCommits.WithLabelValues("checks").Inc()
		changed = true
	}
	if !reflect.DeepEqual(fresh.SSLCert, p.held.SSLCert) {
		p.held.SSLCert = fresh.SSLCert
		metrics.PollCommits.WithLabelValues("ssl_cert").Inc()
		changed = true
	}
	return changed
}
