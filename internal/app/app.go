package app

import (
	"github.com/orgball2608/tweet-fetcher/internal/browser"
	"github.com/orgball2608/tweet-fetcher/internal/browser/browserimpl"
	"github.com/orgball2608/tweet-fetcher/internal/notify/telegramimpl"
	"github.com/orgball2608/tweet-fetcher/internal/probe"
	"github.com/orgball2608/tweet-fetcher/internal/server"
	"github.com/orgball2608/tweet-fetcher/internal/tweet"
	"github.com/orgball2608/tweet-fetcher/internal/tweet/tweetimpl"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		telegramimpl.New,
	),
	fx.Provide(
		fx.Annotate(
			browserimpl.New,
			fx.As(new(browser.Platform)),
		),
		fx.Annotate(
			browser.NewManager,
			fx.As(new(tweetimpl.Browsers)),
		),
		fx.Annotate(
			tweetimpl.New,
			fx.As(new(tweet.Client)),
		),
		fx.Annotate(
			probe.New,
			fx.As(new(server.HealthSource)),
		),
		server.New,
	),
	fx.Invoke(func(*server.Server) {}),
)
