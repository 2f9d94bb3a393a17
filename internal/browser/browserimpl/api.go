package browserimpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orgball2608/tweet-fetcher/internal/browser"
)

// API talks to the REST side of the browser platform.
type API struct {
	client   *resty.Client
	endpoint *url.URL
	token    string
}

type sessionsResponse struct {
	Sessions []browser.ActiveSession `json:"sessions"`
}

type acquireResponse struct {
	SessionID string `json:"sessionId"`
}

func NewAPI(endpoint, token string) (*API, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid browser endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid browser endpoint scheme %q", u.Scheme)
	}

	client := resty.New().
		SetBaseURL(u.String()).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	if token != "" {
		client.SetAuthToken(token)
	}

	return &API{client: client, endpoint: u, token: token}, nil
}

// Sessions lists every session the platform currently keeps open.
func (a *API) Sessions(ctx context.Context) ([]browser.ActiveSession, error) {
	var out sessionsResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/sessions")
	if err != nil {
		return nil, fmt.Errorf("could not list sessions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("could not list sessions: unexpected status %s", resp.Status())
	}
	return out.Sessions, nil
}

// Acquire asks the platform for a new session that stays open for keepAlive
// after its last client disconnects.
func (a *API) Acquire(ctx context.Context, keepAlive time.Duration) (string, error) {
	var out acquireResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("keep_alive", strconv.FormatInt(keepAlive.Milliseconds(), 10)).
		SetResult(&out).
		Get("/v1/acquire")
	if err != nil {
		return "", fmt.Errorf("could not acquire session: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("could not acquire session: unexpected status %s", resp.Status())
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("could not acquire session: empty session id")
	}
	return out.SessionID, nil
}

// DevtoolsURL is the websocket a CDP client dials to attach to sessionID.
func (a *API) DevtoolsURL(sessionID string) string {
	u := *a.endpoint
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/connectDevtools"

	q := url.Values{}
	q.Set("browser_session", sessionID)
	if a.token != "" {
		q.Set("token", a.token)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
