package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SecretKey string `env:"SECRET_KEY" env-required:"true"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Browser struct {
		Endpoint          string        `env:"BROWSER_ENDPOINT" env-required:"true"`
		Token             string        `env:"BROWSER_TOKEN"`
		Driver            string        `env:"BROWSER_DRIVER" env-default:"playwright"`
		KeepAlive         time.Duration `env:"BROWSER_KEEP_ALIVE" env-default:"10s"`
		NavigationTimeout time.Duration `env:"BROWSER_NAVIGATION_TIMEOUT" env-default:"30s"`
	}
	Render struct {
		URL string `env:"RENDER_URL" env-default:"https://tweet-fetcher-client.pages.dev"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"0"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1m"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
	Probe struct {
		Interval time.Duration `env:"PROBE_INTERVAL" env-default:"1m"`
	}
	Telegram struct {
		Token string `env:"TELEGRAM_TOKEN"`
		User  int64  `env:"TELEGRAM_USER"`
	}
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// New reads the configuration from the environment once per process.
func New() (*Config, error) {
	once.Do(func() {
		c := &Config{}
		if err := cleanenv.ReadEnv(c); err != nil {
			help, _ := cleanenv.GetDescription(c, nil)
			loadErr = fmt.Errorf("failed to read configuration: %w\n%s", err, help)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return cfg, loadErr
}

// Validate checks the values cleanenv cannot express with tags.
func (c *Config) Validate() error {
	if c.App.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	switch c.Browser.Driver {
	case DriverPlaywright, DriverChromedp:
	default:
		return fmt.Errorf("unsupported BROWSER_DRIVER %q", c.Browser.Driver)
	}
	if c.Browser.KeepAlive <= 0 {
		return fmt.Errorf("BROWSER_KEEP_ALIVE must be positive")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Per <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER must be positive when rate limiting is enabled")
	}
	return nil
}
