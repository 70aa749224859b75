package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestLogHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewLogHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Debug("hidden")
	logger.With("component", "engine").WithGroup("cache").Info("cleared", "generation", 5)

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.Contains(t, line, "INFO cleared component=engine cache.generation=5")
	assert.NotContains(t, line, "hidden")
}
