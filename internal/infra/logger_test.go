package infra

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
	})

	require.NoError(t, SetupLogging("debug", "json"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, ok)

	require.NoError(t, SetupLogging("warn", "text"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	assert.Error(t, SetupLogging("loud", "text"))
	assert.Error(t, SetupLogging("info", "xml"))
}
