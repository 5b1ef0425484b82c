package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsShared(t *testing.T) {
	assert.Same(t, NewLogger(), NewLogger())
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { _ = Configure("info", "text") })

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, NewLogger().GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, NewLogger().Formatter)

	require.NoError(t, Configure("warn", ""))
	assert.Equal(t, logrus.WarnLevel, NewLogger().GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, NewLogger().Formatter)

	assert.Error(t, Configure("loud", "text"))
	assert.Error(t, Configure("info", "xml"))
}
