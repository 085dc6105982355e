package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSONWritesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{ServiceName: "giveaway-bot", Format: "json", Out: &buf})

	l := Component("engine")
	l.Info().Str("giveaway_id", "42").Msg("giveaway ended")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	assert.Equal(t, "giveaway-bot", entry["service"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "42", entry["giveaway_id"])
	assert.Equal(t, "giveaway ended", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestInitDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{ServiceName: "svc", Format: "json", Out: &buf})
	l := Component("x")
	l.Debug().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	Init(Options{ServiceName: "svc", Debug: true, Format: "json", Out: &buf})
	l = Component("x")
	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
