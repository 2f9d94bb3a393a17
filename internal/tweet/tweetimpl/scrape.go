package tweetimpl

import (
	"context"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
)

// scrape loads the rendering page for id and returns the page's body text.
// There is no retry: any failure ends the request.
func (t *TweetImpl) scrape(ctx context.Context, log logger.Logger, b browser.Browser, id string) (string, error) {
	log.Debug("Creating page")
	page, err := b.NewPage(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("Failed to close page", "error", err)
		}
	}()

	target := t.renderPageURL(id)
	log.Debug("Navigating to tweet", "url", target)
	if err := page.Goto(ctx, target); err != nil {
		return "", err
	}

	log.Debug("Evaluating tweet body")
	return page.BodyText(ctx)
}
