package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", &buf)
	defer Setup("warn", os.Stderr)

	Debug("hidden", nil)
	Info("fetch_done", map[string]any{"posts": 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fetch_done", entry["msg"])
	assert.Equal(t, float64(3), entry["posts"])
}

func TestSetupUnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	Setup("loud", &buf)
	defer Setup("warn", os.Stderr)

	Info("dropped", nil)
	Warn("kept", nil)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
