package browserimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

// Connector attaches a CDP client to a platform session.
type Connector interface {
	Connect(ctx context.Context, sessionID, devtoolsURL string) (browser.Browser, error)
}

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

type PlatformImpl struct {
	api       *API
	connector Connector
	logger    logger.Logger
}

var _ browser.Platform = (*PlatformImpl)(nil)

func New(opts Opts) (*PlatformImpl, error) {
	api, err := NewAPI(opts.Config.Browser.Endpoint, opts.Config.Browser.Token)
	if err != nil {
		return nil, err
	}

	navTimeout := opts.Config.Browser.NavigationTimeout
	var connector Connector
	switch opts.Config.Browser.Driver {
	case config.DriverChromedp:
		connector = NewChromedpConnector(navTimeout)
	default:
		pm, err := NewPlaywrightManager(opts.LC, opts.Logger)
		if err != nil {
			return nil, err
		}
		connector = NewPlaywrightConnector(pm, navTimeout)
	}

	opts.Logger.Info("Browser platform configured",
		"endpoint", opts.Config.Browser.Endpoint,
		"driver", opts.Config.Browser.Driver)

	return NewPlatform(api, connector, opts.Logger), nil
}

func NewPlatform(api *API, connector Connector, log logger.Logger) *PlatformImpl {
	return &PlatformImpl{api: api, connector: connector, logger: log}
}

func (p *PlatformImpl) Sessions(ctx context.Context) ([]browser.ActiveSession, error) {
	return p.api.Sessions(ctx)
}

func (p *PlatformImpl) Connect(ctx context.Context, sessionID string) (browser.Browser, error) {
	b, err := p.connector.Connect(ctx, sessionID, p.api.DevtoolsURL(sessionID))
	if err != nil {
		return nil, fmt.Errorf("could not connect to session %s: %w", sessionID, err)
	}
	return b, nil
}

func (p *PlatformImpl) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	start := time.Now()
	sessionID, err := p.api.Acquire(ctx, opts.KeepAlive)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Acquired browser session", "session_id", sessionID, "took", time.Since(start).String())

	b, err := p.connector.Connect(ctx, sessionID, p.api.DevtoolsURL(sessionID))
	if err != nil {
		return nil, fmt.Errorf("could not connect to new session %s: %w", sessionID, err)
	}
	return b, nil
}
