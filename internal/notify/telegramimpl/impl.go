package telegramimpl

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/tweet-fetcher/internal/notify"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"github.com/orgball2608/tweet-fetcher/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// Sender is the part of the bot API used for alerts.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramImpl struct {
	bot      Sender
	userID   int64
	logger   logger.Logger
	retryCfg retry.Config
}

var _ notify.Client = (*TelegramImpl)(nil)

// New returns a Telegram alerter, or notify.Nop when no bot token is set.
func New(opts Opts) (notify.Client, error) {
	if opts.Config.Telegram.Token == "" {
		opts.Logger.Info("Telegram alerts disabled")
		return notify.Nop{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	return NewWithSender(bot, opts.Config.Telegram.User, opts.Logger, retry.DefaultConfig()), nil
}

func NewWithSender(bot Sender, userID int64, log logger.Logger, retryCfg retry.Config) *TelegramImpl {
	return &TelegramImpl{bot: bot, userID: userID, logger: log, retryCfg: retryCfg}
}

// Alert sends message to the configured user.
func (tg *TelegramImpl) Alert(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(tg.userID, message)

	err := retry.Do(ctx, tg.logger, "TelegramAlert", func() error {
		_, err := tg.bot.Send(msg)
		return err
	}, tg.retryCfg)
	if err != nil {
		tg.logger.Error("Error sending alert to user", "userID", tg.userID, "error", err)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	tg.logger.Info("Alert sent to user", "userID", tg.userID)
	return nil
}
