package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImplWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.With("request_id", "abc").Info("Scraping tweet", "id", "123")

	out := buf.String()
	assert.Contains(t, out, "Scraping tweet")
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"id":"123"`)
}

func TestImplProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Debug("noise")
	assert.Empty(t, buf.String())
}
