package browserimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
)

// PlaywrightManager owns the local playwright driver. Browsers themselves
// run on the remote platform.
type PlaywrightManager struct {
	pw     *playwright.Playwright
	logger logger.Logger
}

func NewPlaywrightManager(lc fx.Lifecycle, log logger.Logger) (*PlaywrightManager, error) {
	log.Info("Initializing Playwright driver...")
	runOpts := &playwright.RunOptions{SkipInstallBrowsers: true}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("could not install playwright driver: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	manager := &PlaywrightManager{pw: pw, logger: log}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping Playwright driver...")
			if err := manager.pw.Stop(); err != nil {
				log.Error("Failed to stop playwright", "error", err)
				return err
			}
			return nil
		},
	})
	log.Info("Playwright driver initialized.")
	return manager, nil
}

type PlaywrightConnector struct {
	manager    *PlaywrightManager
	navTimeout time.Duration
}

func NewPlaywrightConnector(pm *PlaywrightManager, navTimeout time.Duration) *PlaywrightConnector {
	return &PlaywrightConnector{manager: pm, navTimeout: navTimeout}
}

func (c *PlaywrightConnector) Connect(ctx context.Context, sessionID, devtoolsURL string) (browser.Browser, error) {
	opts := playwright.BrowserTypeConnectOverCDPOptions{}
	if deadline, ok := ctx.Deadline(); ok {
		opts.Timeout = playwright.Float(float64(time.Until(deadline).Milliseconds()))
	}

	br, err := c.manager.pw.Chromium.ConnectOverCDP(devtoolsURL, opts)
	if err != nil {
		return nil, err
	}
	return &playwrightBrowser{sessionID: sessionID, browser: br, navTimeout: c.navTimeout}, nil
}

type playwrightBrowser struct {
	sessionID  string
	browser    playwright.Browser
	navTimeout time.Duration
}

func (b *playwrightBrowser) SessionID() string { return b.sessionID }

func (b *playwrightBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return &playwrightPage{page: page, navTimeout: b.navTimeout}, nil
}

// Disconnect closes only the contexts this client created; the remote
// session itself survives.
func (b *playwrightBrowser) Disconnect() error {
	return b.browser.Close()
}

type playwrightPage struct {
	page       playwright.Page
	navTimeout time.Duration
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(p.navTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("could not goto page '%s': %w", url, err)
	}
	return nil
}

func (p *playwrightPage) BodyText(ctx context.Context) (string, error) {
	text, err := p.page.Locator("body").InnerText()
	if err != nil {
		return "", fmt.Errorf("could not read body text: %w", err)
	}
	return text, nil
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
