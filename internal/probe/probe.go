package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/internal/notify"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

const checkTimeout = 15 * time.Second

// Status is the last observed state of the remote session pool.
type Status struct {
	Total     int       `json:"total"`
	Idle      int       `json:"idle"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Platform browser.Platform
	Notifier notify.Client
	Config   *config.Config
	Logger   logger.Logger
}

// Probe periodically lists the platform's sessions. It only observes the
// pool; it never claims or closes sessions.
type Probe struct {
	platform browser.Platform
	notifier notify.Client
	logger   logger.Logger

	mu      sync.RWMutex
	status  Status
	failing bool
}

func New(opts Opts) (*Probe, error) {
	p := &Probe{
		platform: opts.Platform,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}

	interval := opts.Config.Probe.Interval
	if interval <= 0 {
		opts.Logger.Info("Browser pool probe disabled")
		return p, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create probe scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()
			p.Check(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule browser pool probe: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			opts.Logger.Info("Starting browser pool probe", "interval", interval.String())
			scheduler.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			opts.Logger.Info("Stopping browser pool probe")
			return scheduler.Shutdown()
		},
	})

	return p, nil
}

// Check lists sessions once and records the result. The first failure after
// a success raises an alert.
func (p *Probe) Check(ctx context.Context) {
	sessions, err := p.platform.Sessions(ctx)
	now := time.Now().UTC()

	p.mu.Lock()
	wasFailing := p.failing
	if err != nil {
		p.failing = true
		p.status = Status{CheckedAt: now, Error: err.Error()}
	} else {
		idle := 0
		for _, s := range sessions {
			if s.Idle() {
				idle++
			}
		}
		p.failing = false
		p.status = Status{Total: len(sessions), Idle: idle, CheckedAt: now}
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("Browser pool probe failed", "error", err)
		if !wasFailing {
			if alertErr := p.notifier.Alert(ctx, fmt.Sprintf("Browser platform is unreachable: %v", err)); alertErr != nil {
				p.logger.Warn("Failed to deliver alert", "error", alertErr)
			}
		}
		return
	}
	p.logger.Debug("Browser pool probed", "total", len(sessions))
}

func (p *Probe) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
