package notify

//go:generate mockgen -source=notify.go -destination=mocks/mock_notify.go -package=mocks

import "context"

// Client delivers operator alerts about infrastructure failures.
type Client interface {
	Alert(ctx context.Context, message string) error
}

// Nop drops every alert. It is used when no alert channel is configured.
type Nop struct{}

func (Nop) Alert(context.Context, string) error { return nil }
