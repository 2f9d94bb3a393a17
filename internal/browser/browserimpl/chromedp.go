package browserimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/orgball2608/tweet-fetcher/internal/browser"
)

type ChromedpConnector struct {
	navTimeout time.Duration
}

func NewChromedpConnector(navTimeout time.Duration) *ChromedpConnector {
	return &ChromedpConnector{navTimeout: navTimeout}
}

// Connect dials the session eagerly so a session that was taken by another
// client fails here rather than on the first navigation. The dial is bounded
// by the navigation timeout.
func (c *ChromedpConnector) Connect(ctx context.Context, sessionID, devtoolsURL string) (browser.Browser, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), devtoolsURL, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	connectCtx, cancel := context.WithTimeout(ctx, c.navTimeout)
	defer cancel()
	stop := context.AfterFunc(connectCtx, browserCancel)

	err := chromedp.Run(browserCtx)
	if !stop() && err == nil {
		// The deadline fired after the dial finished and already tore it down.
		err = connectCtx.Err()
	}
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("could not connect over cdp: %w", err)
	}

	return &chromedpBrowser{
		sessionID:     sessionID,
		ctx:           browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		navTimeout:    c.navTimeout,
	}, nil
}

type chromedpBrowser struct {
	sessionID     string
	ctx           context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	navTimeout    time.Duration
}

func (b *chromedpBrowser) SessionID() string { return b.sessionID }

func (b *chromedpBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return &chromedpPage{ctx: tabCtx, cancel: cancel, navTimeout: b.navTimeout}, nil
}

func (b *chromedpBrowser) Disconnect() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}

type chromedpPage struct {
	ctx        context.Context
	cancel     context.CancelFunc
	navTimeout time.Duration
}

func (p *chromedpPage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (p *chromedpPage) Goto(ctx context.Context, url string) error {
	if err := p.run(ctx, p.navTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("could not goto page '%s': %w", url, err)
	}
	return nil
}

func (p *chromedpPage) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := p.run(ctx, p.navTimeout, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("could not read body text: %w", err)
	}
	return text, nil
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}
