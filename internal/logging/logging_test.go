// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewWriterFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.With("run_id", "r1").Info("allocated", "cows", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "allocated", lines[0]["msg"])
	assert.Equal(t, "r1", lines[0]["run_id"])
	assert.Equal(t, float64(3), lines[0]["cows"])
}

func TestRedactsCredentialKeys(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "debug")
	require.NoError(t, err)

	log.Info("opening store", "driver", "pgx", "store_dsn", "postgres://u:p@h/db")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "pgx", lines[0]["driver"])
	assert.Equal(t, "[REDACTED]", lines[0]["store_dsn"])
}

func TestBadLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	assert.NotPanics(t, func() {
		log.Info("nothing", "k", "v")
		log.With("a", 1).Warn("still nothing")
		log.Sync()
	})
	assert.NotPanics(t, func() { Nop().Error("dropped") })
}
