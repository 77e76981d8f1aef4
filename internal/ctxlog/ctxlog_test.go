package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	ctx := WithLogger(context.Background(), logger)

	require.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, slog.Default(), FromContext(WithLogger(context.Background(), nil)))
}

func TestWith(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var out bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&out, nil)))

	// --- Act ---
	FromContext(With(ctx, "library", "print")).Info("loaded")
	FromContext(ctx).Info("plain")

	// --- Assert ---
	assert.Contains(t, out.String(), "msg=loaded library=print")
	assert.NotContains(t, out.String(), "msg=plain library")
}
