package ffmpeg

import (
	"fmt"
	"time"

	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/util"
)

const (
	defaultBinary        = "ffmpeg"
	defaultTimeout       = 5 * time.Minute
	defaultGracePeriod   = 5 * time.Second
	defaultMaxOutputSize = "512MB"
	defaultStderrLimit   = 4096
)

// Config configures audio extraction.
type Config struct {
	// Binary is the ffmpeg executable, resolved via PATH.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Format is the canonical output format: wav, mp3 or flac.
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=wav mp3 flac"`
	// Timeout bounds one extraction.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	// GracePeriod is the delay between SIGTERM and SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gt=0"`
	// MaxOutputSize caps the decoded audio held in memory (e.g. "512MB").
	MaxOutputSize string `yaml:"max_output_size" mapstructure:"max_output_size" validate:"bytesize"`
	// StderrLimit is how many trailing stderr bytes are logged on failure.
	StderrLimit int `yaml:"stderr_limit" mapstructure:"stderr_limit" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = defaultBinary
	}
	if c.Format == "" {
		c.Format = media.DefaultFormat
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = defaultGracePeriod
	}
	if c.MaxOutputSize == "" {
		c.MaxOutputSize = defaultMaxOutputSize
	}
	if c.StderrLimit == 0 {
		c.StderrLimit = defaultStderrLimit
	}
}

// Validate checks the values ApplyDefaults cannot fix.
func (c *Config) Validate() error {
	if _, err := media.LookupFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := util.ParseSize(c.MaxOutputSize); err != nil {
		return fmt.Errorf("max_output_size: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
