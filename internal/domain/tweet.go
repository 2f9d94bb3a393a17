package domain

// Tweet is the raw post as printed by the rendering page. Only the fields
// the response reads are decoded, so the rest of the payload may carry any
// type.
type Tweet struct {
	TypeName    string    `json:"__typename"`
	Lang        string    `json:"lang"`
	CreatedAt   string    `json:"created_at"`
	IDStr       string    `json:"id_str"`
	Text        string    `json:"text"`
	Entities    *Entities `json:"entities"`
	User        *User     `json:"user"`
	Photos      []Photo   `json:"photos"`
	QuotedTweet *Tweet    `json:"quoted_tweet"`
}

type Entities struct {
	Hashtags     []Hashtag     `json:"hashtags"`
	URLs         []URLEntity   `json:"urls"`
	UserMentions []UserMention `json:"user_mentions"`
}

type Hashtag struct {
	Text string `json:"text"`
}

type URLEntity struct {
	DisplayURL  string `json:"display_url"`
	ExpandedURL string `json:"expanded_url"`
}

type UserMention struct {
	IDStr      string `json:"id_str"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// User is the tweet author. It is passed through to the response unchanged.
type User struct {
	IDStr                string `json:"id_str"`
	Name                 string `json:"name"`
	ScreenName           string `json:"screen_name"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https,omitempty"`
	Verified             *bool  `json:"verified,omitempty"`
	IsBlueVerified       *bool  `json:"is_blue_verified,omitempty"`
	ProfileImageShape    string `json:"profile_image_shape,omitempty"`
}

type Photo struct {
	URL string `json:"url"`
}

// SanitizedTweet is the stable output shape. List fields are never nil.
type SanitizedTweet struct {
	TypeName     string    `json:"__typename"`
	Lang         string    `json:"lang"`
	CreatedAt    string    `json:"created_at"`
	TweetID      string    `json:"tweet_id"`
	Hashtags     []string  `json:"hastags"`
	URLs         []URL     `json:"urls"`
	UserMentions []Mention `json:"user_mentions"`
	Content      string    `json:"content"`
	User         *User     `json:"user"`
	Photos       []string  `json:"photos"`
}

type URL struct {
	DisplayURL  string `json:"displayUrl"`
	ExpandedURL string `json:"expandedUrl"`
}

type Mention struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ResponseTweet carries at most one level of quoting: QuoteTweet is a
// SanitizedTweet and cannot quote anything itself.
type ResponseTweet struct {
	SanitizedTweet
	QuoteTweet *SanitizedTweet `json:"quote_tweet"`
}
