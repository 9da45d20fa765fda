// Package connectivity periodically tests the connection of every configured
// integration and keeps the latest results.
package connectivity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// Monitor runs connection checks on a cron schedule.
type Monitor struct {
	source   IntegrationSource
	adapters AdapterProvider
	cache    SnapshotCache
	schedule string
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	initial sync.WaitGroup

	mu       sync.RWMutex
	snapshot Snapshot
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithSchedule sets the cron schedule, e.g. "@every 5m" or "*/10 * * * *".
func WithSchedule(schedule string) Option {
	return func(m *Monitor) {
		if schedule != "" {
			m.schedule = schedule
		}
	}
}

// WithCache mirrors every snapshot into cache.
func WithCache(cache SnapshotCache) Option {
	return func(m *Monitor) { m.cache = cache }
}

// WithCheckTimeout bounds each connection test.
func WithCheckTimeout(timeout time.Duration) Option {
	return func(m *Monitor) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithLogger sets the monitor logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMonitor creates a monitor. It does nothing until Start is called.
func NewMonitor(source IntegrationSource, adapters AdapterProvider, opts ...Option) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Monitor{
		source:   source,
		adapters: adapters,
		schedule: DefaultSchedule,
		timeout:  DefaultCheckTimeout,
		logger:   zap.NewNop(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		snapshot: Snapshot{Statuses: []Status{}},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cron = cron.New(cron.WithLogger(cronLogger{m.logger.Sugar()}))
	return m
}

// Start registers the schedule, runs an initial check in the background and
// starts the scheduler. It returns an error for an invalid schedule. A run is
// skipped while the previous one is still in progress.
func (m *Monitor) Start() error {
	if m == nil {
		return nil
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{m.logger.Sugar()})).Then(cron.FuncJob(m.run))
	if _, err := m.cron.AddJob(m.schedule, job); err != nil {
		return fmt.Errorf("%s %q: %w", ErrInvalidSchedule, m.schedule, err)
	}

	m.logger.Info("Starting connectivity monitor", zap.String("schedule", m.schedule))
	m.initial.Add(1)
	go func() {
		defer m.initial.Done()
		job.Run()
	}()
	m.cron.Start()
	return nil
}

// Stop cancels running checks and waits for the initial check and scheduled
// jobs to finish.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
	m.initial.Wait()
	m.logger.Info("Connectivity monitor stopped")
}

// Snapshot returns the latest results.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]Status, len(m.snapshot.Statuses))
	copy(statuses, m.snapshot.Statuses)
	return Snapshot{Statuses: statuses, CheckedAt: m.snapshot.CheckedAt}
}

func (m *Monitor) run() {
	if _, err := m.Check(m.ctx); err != nil {
		m.logger.Error("Connectivity check failed", zap.Error(err))
	}
}

// Check tests every configured integration and stores the snapshot.
func (m *Monitor) Check(ctx context.Context) (Snapshot, error) {
	list, err := m.source.LoadIntegrations()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", ErrLoadIntegrations, err)
	}

	statuses := make([]Status, len(list))
	sem := make(chan struct{}, MaxConcurrentChecks)
	var wg sync.WaitGroup

	for i, integration := range list {
		wg.Add(1)
		go func(i int, integration integrations.Integration) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			statuses[i] = m.checkOne(ctx, integration)
		}(i, integration)
	}
	wg.Wait()

	snapshot := Snapshot{Statuses: statuses, CheckedAt: m.now().UTC()}

	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()

	failed := 0
	for _, s := range statuses {
		if !s.OK {
			failed++
		}
	}
	m.logger.Info("Connectivity check completed", zap.Int("integrations", len(statuses)), zap.Int("failed", failed))

	if m.cache != nil {
		if err := m.cache.SetCache(ctx, CacheKey, snapshot, CacheTTL); err != nil {
			m.logger.Warn(ErrCacheSnapshot, zap.Error(err))
		}
	}
	return snapshot, nil
}

func (m *Monitor) checkOne(ctx context.Context, integration integrations.Integration) Status {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	status := Status{
		IntegrationID: integration.ID,
		Name:          integration.Name,
		Type:          integration.Type,
	}

	adapter, err := m.adapters.GetAdapter(ctx, integration)
	if err == nil {
		err = adapter.TestConnection(ctx)
	}
	status.CheckedAt = m.now().UTC()

	if err != nil {
		status.Error = integrations.Classify(err)
		m.logger.Warn("Integration connection test failed",
			zap.String("integration_id", integration.ID),
			zap.String("type", string(integration.Type)),
			zap.Error(err))
		return status
	}

	status.OK = true
	return status
}

// cronLogger routes scheduler messages to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
