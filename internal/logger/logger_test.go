package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestPrepareLogger(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.WarnLevel)
	})

	t.Run("level and format", func(t *testing.T) {
		require.NoError(t, PrepareLogger(Config{Level: "DEBUG", Format: "json"}))
		require.Equal(t, log.DebugLevel, log.GetLevel())
		require.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

		require.NoError(t, PrepareLogger(Config{Level: "warn"}))
		require.Equal(t, log.WarnLevel, log.GetLevel())
		require.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		require.NoError(t, PrepareLogger(Config{Level: "INFO", Output: path}))
		log.Info("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "hello")
	})

	t.Run("incorrect level", func(t *testing.T) {
		require.Error(t, PrepareLogger(Config{Level: "LOUD"}))
	})
}
