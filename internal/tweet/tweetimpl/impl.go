package tweetimpl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/internal/domain"
	"github.com/orgball2608/tweet-fetcher/internal/notify"
	"github.com/orgball2608/tweet-fetcher/internal/tweet"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/errors"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

const alertTimeout = 30 * time.Second

// Browsers is satisfied by *browser.Manager.
type Browsers interface {
	Acquire(ctx context.Context) (browser.Browser, bool, error)
	Release(b browser.Browser)
}

type Opts struct {
	fx.In

	Browsers Browsers
	Notifier notify.Client
	Config   *config.Config
	Logger   logger.Logger
}

type TweetImpl struct {
	browsers  Browsers
	notifier  notify.Client
	renderURL *url.URL
	logger    logger.Logger
}

var _ tweet.Client = (*TweetImpl)(nil)

func New(opts Opts) (*TweetImpl, error) {
	renderURL, err := url.Parse(opts.Config.Render.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid render url: %w", err)
	}

	return &TweetImpl{
		browsers:  opts.Browsers,
		notifier:  opts.Notifier,
		renderURL: renderURL,
		logger:    opts.Logger,
	}, nil
}

func (t *TweetImpl) Get(ctx context.Context, id string) (*domain.ResponseTweet, error) {
	log := t.logger.With("tweet_id", id)

	log.Debug("Selecting browser session")
	b, reused, err := t.browsers.Acquire(ctx)
	if err != nil {
		log.Error("Failed to get a browser", "error", err)
		t.alert(ctx, fmt.Sprintf("Could not get a browser for tweet %s: %v", id, err))
		return nil, errors.WrapWithCode(err, "browser_unavailable", "could not get a browser")
	}
	defer t.browsers.Release(b)

	log = log.With("session_id", b.SessionID(), "reused", reused)

	text, err := t.scrape(ctx, log, b, id)
	if err != nil {
		log.Error("Failed to scrape tweet", "error", err)
		t.alert(ctx, fmt.Sprintf("Could not scrape tweet %s: %v", id, err))
		return nil, errors.Wrap(err, "could not scrape tweet")
	}

	resp, err := tweet.Sanitize(text)
	if err != nil {
		log.Info("Tweet not found", "reason", err)
		return nil, err
	}

	log.Info("Tweet fetched", "has_quote", resp.QuoteTweet != nil)
	return resp, nil
}

// renderPageURL points the rendering page at the tweet id.
func (t *TweetImpl) renderPageURL(id string) string {
	u := *t.renderURL
	q := u.Query()
	q.Set("id", id)
	u.RawQuery = q.Encode()
	return u.String()
}

// alert runs detached from the request so a slow alert channel never
// delays the response.
func (t *TweetImpl) alert(ctx context.Context, message string) {
	go func() {
		alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
		defer cancel()
		if err := t.notifier.Alert(alertCtx, message); err != nil {
			t.logger.Warn("Failed to deliver alert", "error", err)
		}
	}()
}
