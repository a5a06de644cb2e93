package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// DefaultFrameInterval is the slice budget before the scheduler yields to its host.
const DefaultFrameInterval = 5 * time.Millisecond

// Duration is a time.Duration written as a string ("5ms", "1s") in config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}

	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config tunes the scheduler and the renderer logging.
//
//	frame_interval = "5ms"
//	log_level = "debug"
//
//	[timeouts]
//	user_blocking = "250ms"
//	normal = "5s"
//	low = "10s"
type Config struct {
	FrameInterval Duration       `toml:"frame_interval"`
	Timeouts      TimeoutsConfig `toml:"timeouts"`
	LogLevel      string         `toml:"log_level"`
}

type TimeoutsConfig struct {
	UserBlocking Duration `toml:"user_blocking"`
	Normal       Duration `toml:"normal"`
	Low          Duration `toml:"low"`
}

func (t TimeoutsConfig) toTimeouts() Timeouts {
	return Timeouts{
		UserBlocking: t.UserBlocking.Duration,
		Normal:       t.Normal.Duration,
		Low:          t.Low.Duration,
	}
}

func DefaultConfig() Config {
	t := DefaultTimeouts()

	return Config{
		FrameInterval: Duration{DefaultFrameInterval},
		Timeouts: TimeoutsConfig{
			UserBlocking: Duration{t.UserBlocking},
			Normal:       Duration{t.Normal},
			Low:          Duration{t.Low},
		},
		LogLevel: "info",
	}
}

// ParseConfig decodes a TOML document on top of the defaults.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads a TOML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.FrameInterval.Duration <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %s", c.FrameInterval.Duration)
	}

	for name, d := range map[string]time.Duration{
		"user_blocking": c.Timeouts.UserBlocking.Duration,
		"normal":        c.Timeouts.Normal.Duration,
		"low":           c.Timeouts.Low.Duration,
	} {
		if d < 0 {
			return fmt.Errorf("timeouts.%s must not be negative, got %s", name, d)
		}
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return nil
}

// NewLogger returns a console logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}
