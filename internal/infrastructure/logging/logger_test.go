package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestFromSettingsFallsBackOnBadLevel(t *testing.T) {
	logger := FromSettings("nope", false)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestFromSettingsDevelopmentEnablesDebug(t *testing.T) {
	logger := FromSettings("", true)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestComponentNamesChild(t *testing.T) {
	logger := NewNop()
	child := logger.Component("watch")
	assert.NotNil(t, child)
}
