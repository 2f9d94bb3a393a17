package tweet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orgball2608/tweet-fetcher/internal/domain"
	"github.com/samber/lo"
)

// notFoundSentinel is what the rendering page prints when it has no tweet.
const notFoundSentinel = "error"

// Sanitize decodes the rendered page text and projects it into the response
// shape. Only the first level of quoting is kept.
func Sanitize(text string) (*domain.ResponseTweet, error) {
	body := strings.TrimSpace(text)
	if body == notFoundSentinel {
		return nil, ErrTweetNotFound
	}
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrTweetNotFound)
	}

	var raw domain.Tweet
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTweetNotFound, err)
	}

	resp := &domain.ResponseTweet{SanitizedTweet: sanitizeTweet(&raw)}
	if raw.QuotedTweet != nil {
		quote := sanitizeTweet(raw.QuotedTweet)
		resp.QuoteTweet = &quote
	}
	return resp, nil
}

func sanitizeTweet(t *domain.Tweet) domain.SanitizedTweet {
	entities := t.Entities
	if entities == nil {
		entities = &domain.Entities{}
	}

	// lo.Map allocates even for nil input, so every list is non-nil.
	return domain.SanitizedTweet{
		TypeName:  t.TypeName,
		Lang:      t.Lang,
		CreatedAt: t.CreatedAt,
		TweetID:   t.IDStr,
		Hashtags: lo.Map(entities.Hashtags, func(h domain.Hashtag, _ int) string {
			return h.Text
		}),
		URLs: lo.Map(entities.URLs, func(u domain.URLEntity, _ int) domain.URL {
			return domain.URL{DisplayURL: u.DisplayURL, ExpandedURL: u.ExpandedURL}
		}),
		UserMentions: lo.Map(entities.UserMentions, func(m domain.UserMention, _ int) domain.Mention {
			return domain.Mention{ID: m.IDStr, Name: m.Name, Username: m.ScreenName}
		}),
		Content: t.Text,
		User:    t.User,
		Photos: lo.Map(t.Photos, func(p domain.Photo, _ int) string {
			return p.URL
		}),
	}
}
