package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritesJSONWithAction(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", &buf)
	defer Init("info", &bytes.Buffer{})

	Error(nil, "cart.sweep.fail", errors.New("boom"), map[string]any{"n": 2})

	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	assert.Equal(t, "cart.sweep.fail", m["action"])
	assert.Equal(t, "error", m["level"])
	assert.Equal(t, "boom", m["error"])
	fields, ok := m["fields"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, fields["n"])
}

func TestLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	Init("warn", &buf)
	defer Init("info", &bytes.Buffer{})

	Info(nil, "noise", nil)
	assert.Zero(t, buf.Len())

	Security(nil, "access.denied.admin", nil)
	assert.Contains(t, buf.String(), `"access.denied.admin"`)
}
