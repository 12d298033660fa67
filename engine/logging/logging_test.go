package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	l := Logger()
	if assert.NotNil(t, l) {
		for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelError} {
			assert.False(t, l.Enabled(context.Background(), lvl), "level %v", lvl)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))
	SetLogger(custom)

	assert.Same(t, custom, Logger())
	Logger().Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "k=1")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
