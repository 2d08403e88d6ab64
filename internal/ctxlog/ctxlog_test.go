package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("returns embedded logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := WithLogger(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, logger := With(ctx, "app", "docs")
	logger.Info("Booted.")
	FromContext(ctx).Info("Again.")

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("app=docs")))
}
