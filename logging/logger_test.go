package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/symopt/logging"
)

func bufferLogger(buf *bytes.Buffer, level slog.Level) *logging.Logger {
	return logging.NewLogger(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestLogGenerate(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf, slog.LevelDebug)

	l.LogGenerate(context.Background(), "residual", 3, 17, nil)
	assert.Contains(t, buf.String(), "generate completed")
	assert.Contains(t, buf.String(), "temporaries=3")

	buf.Reset()
	l.LogGenerate(context.Background(), "residual", 0, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf, slog.LevelInfo).WithFactor("odometry").WithCount(2)

	l.LogAlias(context.Background(), "poses.1", "poses.0")
	assert.Contains(t, buf.String(), "factor=odometry")
	assert.Contains(t, buf.String(), "count=2")
	assert.Contains(t, buf.String(), "alias=poses.0")

	buf.Reset()
	l.LogFactors(context.Background(), 4, nil) // debug, filtered at info
	assert.Empty(t, buf.String())
}

func TestNoopLogger(t *testing.T) {
	l := logging.NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
