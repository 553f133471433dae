package seqmap

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLogger_Throttled(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelInfo)

	l.Throttled(t.Context(), "first")
	l.Throttled(t.Context(), "second")
	l.Important(t.Context(), "third")

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "second")
	assert.Contains(t, out, "third")
}

func TestLogger_Disabled(t *testing.T) {
	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled())
	assert.False(t, NoopLogger().Enabled())

	l, buf := newBufferLogger(slog.LevelWarn)
	assert.False(t, l.Enabled())
	l.Important(t.Context(), "hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_Events(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelDebug)

	l.LogBuild(t.Context(), 2, 1000, time.Millisecond, nil)
	l.LogBuild(t.Context(), 2, 1000, time.Millisecond, errors.New("boom"))
	l.WithQuery("read7").LogAlign(t.Context(), "read7", 3, nil)
	l.LogBatch(t.Context(), 10, 1, 0, 0)
	l.LogSnapshot(t.Context(), "save", "idx.snap", time.Second, nil)

	out := buf.String()
	assert.Contains(t, out, "index built")
	assert.Contains(t, out, "index build failed")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "query=read7")
	assert.Contains(t, out, "batch completed with failures")
	assert.Contains(t, out, "snapshot save")
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	other := errors.New("other")
	assert.Equal(t, other, translateError(other))

	qe := &QueryError{Query: "r1", cause: ErrClosed}
	assert.ErrorIs(t, qe, ErrClosed)
	assert.Equal(t, `query "r1": mapper closed`, qe.Error())
}

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	mc.RecordAlign(2, 10*time.Nanosecond, nil)
	mc.RecordAlign(0, 30*time.Nanosecond, nil)
	mc.RecordAlign(0, 20*time.Nanosecond, errors.New("x"))
	mc.RecordCache(3, 4)

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.AlignCount)
	assert.Equal(t, int64(1), stats.AlignUnmapped)
	assert.Equal(t, int64(1), stats.AlignErrors)
	assert.Equal(t, int64(20), stats.AlignAvgNanos)
	assert.Equal(t, int64(3), stats.CacheHits)
	assert.Equal(t, int64(4), stats.Skips)
}
