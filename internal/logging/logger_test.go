package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/backlogmd/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "debug", want: log.DebugLevel},
		{level: "info", want: log.InfoLevel},
		{level: "warn", want: log.WarnLevel},
		{level: "warning", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: "DEBUG", want: log.DebugLevel},
		{level: " Info ", want: log.InfoLevel},
		{level: "verbose", want: log.InfoLevel},
		{level: "", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(tt.level)
			require.NotNil(t, logger)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, log.InfoLevel, logging.NewInteractive().GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("verification failed", logging.FieldPath, "a.backlog", logging.FieldCharset, "shift_jis")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "verification failed")
	assert.Contains(t, out, "path=a.backlog")
	assert.Contains(t, out, "charset=shift_jis")
}

//nolint:paralleltest // Swaps the process-wide logger.
func TestDefault_SetDefaultAndLevel(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	require.NotNil(t, original)
	assert.Same(t, original, logging.Default())

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, replacement.GetLevel())
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()))
	//nolint:staticcheck // A nil context falls back to the default logger.
	assert.NotNil(t, logging.FromContext(nil))
	assert.Same(t, logger, logging.FromContext(logging.WithLogger(nil, logger))) //nolint:staticcheck // Same.
}
