package browserimpl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromedpConnectGivesUpOnSilentSession(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Accept the connection but never answer the websocket upgrade.
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/connectDevtools?browser_session=s1"
	connector := NewChromedpConnector(200 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		b, err := connector.Connect(context.Background(), "s1", wsURL)
		assert.Nil(t, b)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorContains(t, err, "could not connect over cdp")
	case <-time.After(10 * time.Second):
		t.Fatal("connect did not respect the navigation timeout")
	}
}
