package tweet

//go:generate mockgen -source=tweet.go -destination=mocks/mock_tweet.go -package=mocks

import (
	"context"

	"github.com/orgball2608/tweet-fetcher/internal/domain"
	"github.com/orgball2608/tweet-fetcher/pkg/errors"
)

// ErrTweetNotFound covers both the page's "error" sentinel and a payload
// that does not decode into a tweet.
var ErrTweetNotFound = errors.WrapWithCode(errors.ErrNotFound, "tweet_not_found", "tweet not found")

type Client interface {
	// Get renders the tweet with the given id in a remote browser and
	// returns its sanitized form.
	Get(ctx context.Context, id string) (*domain.ResponseTweet, error)
}
