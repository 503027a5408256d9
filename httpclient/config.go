package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/mediascribe/security"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxResponseSize = 10 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds the whole exchange, upload included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// MaxResponseSize caps how many response body bytes are read.
	MaxResponseSize int64 `yaml:"max_response_size" mapstructure:"max_response_size"`
	// TLS customizes certificate handling. Ignored when Transport is set.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	Auth      Auth              `yaml:"-" mapstructure:"-"`
	Transport http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = defaultMaxResponseSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("httpclient: max_response_size must be positive")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}
