package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := DefaultConfig()

		assert.Equal(t, 5*time.Millisecond, cfg.FrameInterval.Duration)
		assert.Equal(t, DefaultTimeouts(), cfg.Timeouts.toTimeouts())
		assert.Equal(t, "info", cfg.LogLevel)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("parse overrides defaults", func(t *testing.T) {
		cfg, err := ParseConfig(`
frame_interval = "8ms"
log_level = "debug"

[timeouts]
normal = "2s"
`)
		require.NoError(t, err)

		assert.Equal(t, 8*time.Millisecond, cfg.FrameInterval.Duration)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, Timeouts{
			UserBlocking: UserBlockingPriorityTimeout,
			Normal:       2 * time.Second,
			Low:          LowPriorityTimeout,
		}, cfg.Timeouts.toTimeouts())
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseConfig(`frame_interval = "soon"`)
		assert.ErrorContains(t, err, `invalid duration "soon"`)

		_, err = ParseConfig(`frame_interval = "0s"`)
		assert.ErrorContains(t, err, "frame_interval must be positive")

		_, err = ParseConfig("[timeouts]\nlow = \"-1s\"")
		assert.ErrorContains(t, err, "timeouts.low must not be negative")

		_, err = ParseConfig(`log_level = "loud"`)
		assert.ErrorContains(t, err, `invalid log_level "loud"`)
	})

	t.Run("invalid values return no config", func(t *testing.T) {
		cfg, err := ParseConfig(`frame_interval = "0s"`)
		assert.Error(t, err)
		assert.Equal(t, Config{}, cfg)

		path := filepath.Join(t.TempDir(), "fiber.toml")
		require.NoError(t, os.WriteFile(path, []byte("log_level = \"loud\"\n"), 0o644))

		cfg, err = LoadConfig(path)
		assert.Error(t, err)
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fiber.toml")
		require.NoError(t, os.WriteFile(path, []byte("[timeouts]\nuser_blocking = \"100ms\"\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, cfg.Timeouts.UserBlocking.Duration)

		_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("applies to the scheduler", func(t *testing.T) {
		cfg, err := ParseConfig("frame_interval = \"20ms\"\n[timeouts]\nlow = \"1s\"")
		require.NoError(t, err)

		s := NewScheduler(NewManualHost(), WithConfig(cfg))
		assert.Equal(t, 20*time.Millisecond, s.frameInterval)

		task := s.ScheduleCallback(LowPriority, func(bool) Callback { return nil })
		assert.Equal(t, time.Second, task.ExpirationTime)
	})

	t.Run("logger honors the level", func(t *testing.T) {
		var buf bytes.Buffer

		cfg := DefaultConfig()
		cfg.LogLevel = "warn"
		log := cfg.NewLogger(&buf)

		log.Info().Msg("quiet")
		log.Warn().Msg("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})

	t.Run("duration round trip", func(t *testing.T) {
		var d Duration
		require.NoError(t, d.UnmarshalText([]byte("1m30s")))

		text, err := d.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "1m30s", string(text))
	})
}
