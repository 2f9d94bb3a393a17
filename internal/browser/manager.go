package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

type ManagerOpts struct {
	fx.In

	Platform Platform
	Config   *config.Config
	Logger   logger.Logger
}

// Manager hands out browsers from the shared remote pool. It never blocks on
// a busy session: a lost race falls back to launching a new one.
type Manager struct {
	platform  Platform
	keepAlive time.Duration
	logger    logger.Logger
	intn      func(n int) int
}

func NewManager(opts ManagerOpts) *Manager {
	return &Manager{
		platform:  opts.Platform,
		keepAlive: opts.Config.Browser.KeepAlive,
		logger:    opts.Logger,
	}
}

// WithRand replaces the random source used to pick idle sessions.
func (m *Manager) WithRand(intn func(n int) int) *Manager {
	m.intn = intn
	return m
}

// Acquire returns a browser and whether it was attached to an existing
// session. Callers must pass the browser to Release on every path.
func (m *Manager) Acquire(ctx context.Context) (Browser, bool, error) {
	if sessionID, ok := m.pickSession(ctx); ok {
		b, err := m.platform.Connect(ctx, sessionID)
		if err == nil {
			m.logger.Debug("Reusing browser session", "session_id", sessionID)
			return b, true, nil
		}
		// Another handler most likely attached first.
		m.logger.Warn("Failed to connect to browser session, launching a new one",
			"session_id", sessionID, "error", err)
	}

	b, err := m.platform.Launch(ctx, LaunchOptions{KeepAlive: m.keepAlive})
	if err != nil {
		return nil, false, fmt.Errorf("could not launch browser: %w", err)
	}
	m.logger.Debug("Launched browser session", "session_id", b.SessionID(), "keep_alive", m.keepAlive.String())
	return b, false, nil
}

func (m *Manager) pickSession(ctx context.Context) (string, bool) {
	sessions, err := m.platform.Sessions(ctx)
	if err != nil {
		m.logger.Warn("Failed to list browser sessions", "error", err)
		return "", false
	}
	m.logger.Debug("Listed browser sessions", "count", len(sessions))
	return PickIdleSession(sessions, m.intn)
}

// Release disconnects from the session without closing it.
func (m *Manager) Release(b Browser) {
	if b == nil {
		return
	}
	if err := b.Disconnect(); err != nil {
		m.logger.Warn("Failed to disconnect browser", "session_id", b.SessionID(), "error", err)
		return
	}
	m.logger.Debug("Disconnected browser", "session_id", b.SessionID())
}
