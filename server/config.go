package server

import (
	"fmt"
	"time"

	"github.com/kbukum/mediascribe/server/middleware"
	"github.com/kbukum/mediascribe/util"
	"github.com/kbukum/mediascribe/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout" validate:"gte=0"`
	// ReadTimeout bounds reading the whole upload. 0 disables it.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	// WriteTimeout must cover extraction plus the upstream call.
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gt=0"`

	// MaxUploadSize caps the /transcribe request body (e.g. "25MB").
	MaxUploadSize string `yaml:"max_upload_size" mapstructure:"max_upload_size" validate:"bytesize"`
	// MaxConcurrent is the number of transcriptions processed at once.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=1"`
	// QueueTimeout is how long a request waits for a free slot.
	QueueTimeout time.Duration `yaml:"queue_timeout" mapstructure:"queue_timeout" validate:"gte=0"`

	CORS middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5 * time.Minute
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 11 * time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 8
	}
	if c.QueueTimeout == 0 {
		c.QueueTimeout = 30 * time.Second
	}
	if c.CORS.Enabled {
		c.CORS.ApplyDefaults()
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UploadLimit returns MaxUploadSize in bytes.
func (c *Config) UploadLimit() int64 {
	n, _ := util.ParseSize(c.MaxUploadSize)
	return n
}
