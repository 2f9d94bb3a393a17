package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/orgball2608/tweet-fetcher/internal/browser"
	browsermocks "github.com/orgball2608/tweet-fetcher/internal/browser/mocks"
	"github.com/orgball2608/tweet-fetcher/internal/notify"
	"github.com/orgball2608/tweet-fetcher/internal/tweet/tweetimpl"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stack wires the real tweet pipeline to a mocked browser platform.
type stack struct {
	server   *Server
	platform *browsermocks.MockPlatform
	browser  *browsermocks.MockBrowser
	page     *browsermocks.MockPage
}

func newStack(t *testing.T) *stack {
	ctrl := gomock.NewController(t)
	cfg := testConfig()
	cfg.Browser.KeepAlive = 10 * time.Second
	cfg.Render.URL = "https://render.test"
	log := logger.NewNop()

	st := &stack{
		platform: browsermocks.NewMockPlatform(ctrl),
		browser:  browsermocks.NewMockBrowser(ctrl),
		page:     browsermocks.NewMockPage(ctrl),
	}
	st.browser.EXPECT().SessionID().Return("s1").AnyTimes()

	manager := browser.NewManager(browser.ManagerOpts{Platform: st.platform, Config: cfg, Logger: log}).
		WithRand(func(int) int { return 0 })
	tweets, err := tweetimpl.New(tweetimpl.Opts{Browsers: manager, Notifier: notify.Nop{}, Config: cfg, Logger: log})
	require.NoError(t, err)

	st.server = NewServer(cfg, log, tweets, staticHealth{})
	return st
}

func (st *stack) expectScrape(body string) {
	st.browser.EXPECT().NewPage(gomock.Any()).Return(st.page, nil)
	st.page.EXPECT().Goto(gomock.Any(), gomock.Any()).Return(nil)
	st.page.EXPECT().BodyText(gomock.Any()).Return(body, nil)
	st.page.EXPECT().Close().Return(nil)
	st.browser.EXPECT().Disconnect().Return(nil)
}

func TestEndToEndSentinelIsNotFound(t *testing.T) {
	for _, target := range []string{"/?id=1", "/?id=abc&extra=1", "/deep/path?id=999"} {
		st := newStack(t)
		st.platform.EXPECT().Sessions(gomock.Any()).Return([]browser.ActiveSession{{SessionID: "s1"}}, nil)
		st.platform.EXPECT().Connect(gomock.Any(), "s1").Return(st.browser, nil)
		st.expectScrape("error")

		status, body, _ := do(t, st.server, http.MethodGet, target, true)
		assert.Equal(t, http.StatusNotFound, status, target)
		assert.JSONEq(t, `{"error":"Tweet not found"}`, body, target)
	}
}

func TestEndToEndGarbledIsNotFound(t *testing.T) {
	st := newStack(t)
	st.platform.EXPECT().Sessions(gomock.Any()).Return(nil, nil)
	st.platform.EXPECT().Launch(gomock.Any(), gomock.Any()).Return(st.browser, nil)
	st.expectScrape(`{"id_str":"123","text":"hel`)

	status, body, _ := do(t, st.server, http.MethodGet, "/?id=123", true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Tweet not found"}`, body)
}

func TestEndToEndLostRaceStillSucceeds(t *testing.T) {
	st := newStack(t)
	st.platform.EXPECT().Sessions(gomock.Any()).Return([]browser.ActiveSession{{SessionID: "s0"}}, nil)
	st.platform.EXPECT().Connect(gomock.Any(), "s0").Return(nil, errors.New("session is in use"))
	st.platform.EXPECT().Launch(gomock.Any(), browser.LaunchOptions{KeepAlive: 10 * time.Second}).Return(st.browser, nil)
	st.expectScrape(`{"id_str":"123","text":"hello","entities":{"hashtags":[{"text":"x"}]}}`)

	status, body, _ := do(t, st.server, http.MethodGet, "/?id=123", true)
	require.Equal(t, http.StatusOK, status)

	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "123", out.Data["tweet_id"])
	assert.Equal(t, "hello", out.Data["content"])
	assert.Equal(t, []any{"x"}, out.Data["hastags"])
	assert.Equal(t, []any{}, out.Data["urls"])
	assert.Equal(t, []any{}, out.Data["user_mentions"])
	assert.Equal(t, []any{}, out.Data["photos"])
	assert.Contains(t, out.Data, "quote_tweet")
	assert.Nil(t, out.Data["quote_tweet"])
}
