package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Reads values from file", func(t *testing.T) {
		// Given: a config file with the cache enabled
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nhuman-mark: O\nredis:\n  enabled: true\n  host: redis\n  port: \"6380\"\n  ttl: 1h\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: every field is read
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "O", conf.HumanMark)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.TTL)
	})

	t.Run("Applies defaults", func(t *testing.T) {
		// Given: an empty config file
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: defaults are used
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "X", conf.HumanMark)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Zero(t, conf.Redis.TTL)
	})

	t.Run("Panics on missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
