package tweetimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	browsermocks "github.com/orgball2608/tweet-fetcher/internal/browser/mocks"
	notifymocks "github.com/orgball2608/tweet-fetcher/internal/notify/mocks"
	"github.com/orgball2608/tweet-fetcher/internal/tweet"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const knownGoodTweet = `{"__typename":"Tweet","lang":"en","created_at":"2024-01-01T00:00:00.000Z","id_str":"123","text":"hello","entities":{"hashtags":[{"text":"x"}]},"user":{"id_str":"1","name":"A","screen_name":"a"}}`

type fixture struct {
	svc      *TweetImpl
	platform *browsermocks.MockPlatform
	browser  *browsermocks.MockBrowser
	page     *browsermocks.MockPage
	notifier *notifymocks.MockClient
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{}
	cfg.Browser.KeepAlive = 10 * time.Second
	cfg.Render.URL = "https://render.test"

	f := &fixture{
		platform: browsermocks.NewMockPlatform(ctrl),
		browser:  browsermocks.NewMockBrowser(ctrl),
		page:     browsermocks.NewMockPage(ctrl),
		notifier: notifymocks.NewMockClient(ctrl),
	}
	f.browser.EXPECT().SessionID().Return("s1").AnyTimes()

	log := logger.NewNop()
	manager := browser.NewManager(browser.ManagerOpts{Platform: f.platform, Config: cfg, Logger: log}).
		WithRand(func(int) int { return 0 })

	svc, err := New(Opts{Browsers: manager, Notifier: f.notifier, Config: cfg, Logger: log})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) expectReuse(ctx context.Context) {
	f.platform.EXPECT().Sessions(ctx).Return([]browser.ActiveSession{{SessionID: "s1"}}, nil)
	f.platform.EXPECT().Connect(ctx, "s1").Return(f.browser, nil)
}

func (f *fixture) expectPage(ctx context.Context, body string) {
	f.browser.EXPECT().NewPage(ctx).Return(f.page, nil)
	f.page.EXPECT().Goto(ctx, "https://render.test?id=123").Return(nil)
	f.page.EXPECT().BodyText(ctx).Return(body, nil)
	f.page.EXPECT().Close().Return(nil)
}

func (f *fixture) expectAlert(t *testing.T) <-chan string {
	sent := make(chan string, 1)
	f.notifier.EXPECT().Alert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg string) error {
		sent <- msg
		return nil
	})
	return sent
}

func waitAlert(t *testing.T, sent <-chan string) string {
	select {
	case msg := <-sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not sent")
		return ""
	}
}

func TestGetReusedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.expectReuse(ctx)
	f.expectPage(ctx, knownGoodTweet)
	f.browser.EXPECT().Disconnect().Return(nil)

	resp, err := f.svc.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "123", resp.TweetID)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, []string{"x"}, resp.Hashtags)
	assert.Nil(t, resp.QuoteTweet)
}

func TestGetFallsBackToLaunchAfterLostRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.platform.EXPECT().Sessions(ctx).Return([]browser.ActiveSession{{SessionID: "s0"}}, nil)
	f.platform.EXPECT().Connect(ctx, "s0").Return(nil, errors.New("websocket: bad handshake"))
	f.platform.EXPECT().Launch(ctx, browser.LaunchOptions{KeepAlive: 10 * time.Second}).Return(f.browser, nil)
	f.expectPage(ctx, knownGoodTweet)
	f.browser.EXPECT().Disconnect().Return(nil)

	resp, err := f.svc.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "123", resp.TweetID)
}

func TestGetNotFoundReleasesBrowser(t *testing.T) {
	for name, body := range map[string]string{
		"sentinel": "error",
		"garbled":  `{"id_str": "12`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			f.expectReuse(ctx)
			f.expectPage(ctx, body)
			f.browser.EXPECT().Disconnect().Return(nil)

			resp, err := f.svc.Get(ctx, "123")
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tweet.ErrTweetNotFound)
		})
	}
}

func TestGetNavigationFailureReleasesBrowser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	navErr := errors.New("net::ERR_TIMED_OUT")

	f.expectReuse(ctx)
	f.browser.EXPECT().NewPage(ctx).Return(f.page, nil)
	f.page.EXPECT().Goto(ctx, gomock.Any()).Return(navErr)
	f.page.EXPECT().Close().Return(nil)
	f.browser.EXPECT().Disconnect().Return(nil)
	sent := f.expectAlert(t)

	_, err := f.svc.Get(ctx, "123")
	assert.ErrorIs(t, err, navErr)
	assert.NotErrorIs(t, err, tweet.ErrTweetNotFound)
	assert.Contains(t, waitAlert(t, sent), "123")
}

func TestGetBodyReadFailureReleasesBrowser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	readErr := errors.New("execution context was destroyed")

	f.expectReuse(ctx)
	f.browser.EXPECT().NewPage(ctx).Return(f.page, nil)
	f.page.EXPECT().Goto(ctx, "https://render.test?id=123").Return(nil)
	f.page.EXPECT().BodyText(ctx).Return("", readErr)
	f.page.EXPECT().Close().Return(nil)
	f.browser.EXPECT().Disconnect().Return(nil)
	sent := f.expectAlert(t)

	resp, err := f.svc.Get(ctx, "123")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, readErr)
	assert.NotErrorIs(t, err, tweet.ErrTweetNotFound)
	assert.Contains(t, waitAlert(t, sent), "123")
}

func TestGetPageFailureReleasesBrowser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.expectReuse(ctx)
	f.browser.EXPECT().NewPage(ctx).Return(nil, errors.New("target closed"))
	f.browser.EXPECT().Disconnect().Return(nil)
	sent := f.expectAlert(t)

	_, err := f.svc.Get(ctx, "123")
	assert.ErrorContains(t, err, "target closed")
	waitAlert(t, sent)
}

func TestGetLaunchFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.platform.EXPECT().Sessions(ctx).Return(nil, nil)
	f.platform.EXPECT().Launch(ctx, gomock.Any()).Return(nil, errors.New("browser limit reached"))
	sent := f.expectAlert(t)

	_, err := f.svc.Get(ctx, "123")
	assert.ErrorContains(t, err, "browser limit reached")
	assert.Contains(t, waitAlert(t, sent), "browser limit reached")
}

func TestRenderPageURLEscapesID(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "https://render.test?id=1%262", f.svc.renderPageURL("1&2"))
}
