package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithoutContext(t *testing.T) {
	for _, tc := range []struct {
		name          string
		log           func(l *ZapLogger, msg string)
		expectedLevel zapcore.Level
	}{
		{name: "Debug", log: func(l *ZapLogger, m string) { l.Debug(m) }, expectedLevel: zapcore.DebugLevel},
		{name: "Info", log: func(l *ZapLogger, m string) { l.Info(m) }, expectedLevel: zapcore.InfoLevel},
		{name: "Warn", log: func(l *ZapLogger, m string) { l.Warn(m) }, expectedLevel: zapcore.WarnLevel},
		{name: "Error", log: func(l *ZapLogger, m string) { l.Error(m) }, expectedLevel: zapcore.ErrorLevel},
	} {
		t.Run(tc.name, func(t *testing.T) {
			observerLogger, logs := observer.New(zap.DebugLevel)
			dut := &ZapLogger{zap.New(observerLogger)}
			const testMessage = "ABC"
			tc.log(dut, testMessage)

			require.Equal(t, 1, logs.Len())
			actual := logs.All()[0]
			require.Equal(t, testMessage, actual.Message)
			require.Equal(t, map[string]interface{}{}, actual.ContextMap())
			require.Equal(t, tc.expectedLevel, actual.Level)
		})
	}
}

func TestWithContext(t *testing.T) {
	for _, tc := range []struct {
		name          string
		log           func(l *ZapLogger, ctx context.Context, msg string)
		expectedLevel zapcore.Level
	}{
		{name: "DebugWithContext", log: func(l *ZapLogger, c context.Context, m string) { l.DebugWithContext(c, m) }, expectedLevel: zapcore.DebugLevel},
		{name: "InfoWithContext", log: func(l *ZapLogger, c context.Context, m string) { l.InfoWithContext(c, m) }, expectedLevel: zapcore.InfoLevel},
		{name: "WarnWithContext", log: func(l *ZapLogger, c context.Context, m string) { l.WarnWithContext(c, m) }, expectedLevel: zapcore.WarnLevel},
		{name: "ErrorWithContext", log: func(l *ZapLogger, c context.Context, m string) { l.ErrorWithContext(c, m) }, expectedLevel: zapcore.ErrorLevel},
	} {
		t.Run(tc.name, func(t *testing.T) {
			observerLogger, logs := observer.New(zap.DebugLevel)
			dut := &ZapLogger{zap.New(observerLogger)}
			ctx := ContextWithFields(context.Background(), zap.String("pipeline", "menu"))
			tc.log(dut, ctx, "ABC")

			require.Equal(t, 1, logs.Len())
			actual := logs.All()[0]
			require.Equal(t, "ABC", actual.Message)
			require.Equal(t, map[string]interface{}{"pipeline": "menu"}, actual.ContextMap())
			require.Equal(t, tc.expectedLevel, actual.Level)
		})
	}
}

func TestContextWithFieldsAccumulates(t *testing.T) {
	log, logs := NewObserverLogger("debug")
	ctx := ContextWithFields(context.Background(), zap.String("a", "1"))
	ctx = ContextWithFields(ctx, zap.Int("b", 2))

	log.InfoWithContext(ctx, "msg", zap.Bool("c", true))
	require.Equal(t, map[string]interface{}{"a": "1", "b": int64(2), "c": true}, logs.All()[0].ContextMap())
}

func TestWithReturnsChild(t *testing.T) {
	log, logs := NewObserverLogger("info")
	child := log.With(zap.String("op", "count"))

	child.Info("done")
	log.Info("root")
	log.Debug("filtered")

	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	require.Equal(t, map[string]interface{}{"op": "count"}, entries[0].ContextMap())
	require.Equal(t, map[string]interface{}{}, entries[1].ContextMap())
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "none"} {
		for _, format := range []string{"text", "json"} {
			l, err := NewLogger(format, level)
			require.NoError(t, err, "%s/%s", format, level)
			require.NotNil(t, l)
		}
	}

	_, err := NewLogger("json", "verbose")
	require.ErrorContains(t, err, "unknown log level")

	_, err = NewLogger("xml", "info")
	require.ErrorContains(t, err, "unknown log format")

	require.Panics(t, func() { MustNewLogger("json", "loud") })
}

func TestOrNoop(t *testing.T) {
	require.NotNil(t, OrNoop(nil))
	log, _ := NewObserverLogger("info")
	require.Same(t, log, OrNoop(log))
}
