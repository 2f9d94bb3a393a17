package browser

//go:generate mockgen -source=browser.go -destination=mocks/mock_browser.go -package=mocks

import (
	"context"
	"time"
)

// ActiveSession is a browser session known to the remote platform.
// ConnectionID is set while some client is attached to it.
type ActiveSession struct {
	SessionID           string `json:"sessionId"`
	StartTime           int64  `json:"startTime,omitempty"`
	ConnectionID        string `json:"connectionId,omitempty"`
	ConnectionStartTime int64  `json:"connectionStartTime,omitempty"`
}

// Idle reports whether no client is attached to the session.
func (s ActiveSession) Idle() bool {
	return s.ConnectionID == ""
}

type LaunchOptions struct {
	// KeepAlive is how long the platform keeps the session open after the
	// last client disconnects.
	KeepAlive time.Duration
}

// Platform is the remote browser automation service. Sessions live there;
// this process only attaches to them.
type Platform interface {
	Sessions(ctx context.Context) ([]ActiveSession, error)
	Connect(ctx context.Context, sessionID string) (Browser, error)
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a live connection to one remote session.
type Browser interface {
	SessionID() string
	NewPage(ctx context.Context) (Page, error)
	// Disconnect detaches from the session and leaves it running so it can
	// be reused until its keep-alive expires.
	Disconnect() error
}

type Page interface {
	Goto(ctx context.Context, url string) error
	BodyText(ctx context.Context) (string, error)
	Close() error
}
