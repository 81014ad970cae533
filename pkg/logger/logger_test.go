package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := Get().WithContext(map[string]interface{}{"request_id": "abc"})
	l.Info("cart updated", map[string]interface{}{"product_id": 7})
	l.Error("save failed", errors.New("boom"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "cart updated", entries[0]["message"])
	assert.Equal(t, "abc", entries[0]["request_id"])
	assert.Equal(t, float64(7), entries[0]["product_id"])
	assert.Contains(t, entries[0]["caller"], "logger_test.go")

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Debug("hidden")
	Info("hidden")
	Warn("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("verbose"))
}
