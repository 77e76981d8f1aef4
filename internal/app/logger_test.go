package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json at warn", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		logger := newLogger("warn", "json", &out)

		logger.Info("hidden")
		logger.Warn("shown", "library", "print")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "print", rec["library"])
	})

	t.Run("text falls back to info", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		logger := newLogger("bogus", "text", &out)

		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "msg=shown")
	})
}
