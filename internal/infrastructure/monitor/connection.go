package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type probe struct {
	name  string
	check Check
}

// Monitor refreshes dependency checks on a cron schedule and caches the result
// for the health endpoint.
type Monitor struct {
	probes   []probe
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		interval: interval,
		timeout:  3 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Register adds a named check. It must be called before Start.
func (m *Monitor) Register(name string, check Check) {
	if check == nil {
		return
	}
	m.probes = append(m.probes, probe{name: name, check: check})
}

// Start runs every check once and then schedules them.
func (m *Monitor) Start() error {
	m.Refresh(context.Background())

	if _, err := m.cron.AddFunc(m.schedule(), func() {
		m.Refresh(context.Background())
	}); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("connection monitor started", zap.Duration("interval", m.interval))
	return nil
}

func (m *Monitor) schedule() string {
	return "@every " + m.interval.String()
}

// Stop waits for a running refresh to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a copy of the last observed state.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}

// IsOnline reports whether every dependency answered the last check.
func (m *Monitor) IsOnline() bool {
	return m.Status().Healthy()
}

// Refresh runs every check now.
func (m *Monitor) Refresh(ctx context.Context) {
	services := make(map[string]bool, len(m.probes))
	for _, p := range m.probes {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := p.check(checkCtx)
		cancel()

		services[p.name] = err == nil
		if err != nil {
			m.logger.Warn("dependency check failed", zap.String("service", p.name), zap.Error(err))
		}
	}

	m.mu.Lock()
	previous := m.status.Services
	m.status = Status{Services: services, LastCheck: time.Now().UTC()}
	m.mu.Unlock()

	m.logTransitions(previous, services)
}

func (m *Monitor) logTransitions(previous, current map[string]bool) {
	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		was, seen := previous[name]
		if seen && was != current[name] {
			m.logger.Info("dependency state changed", zap.String("service", name), zap.Bool("online", current[name]))
		}
	}
}
