package transcription

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/mediascribe/security"
	"github.com/kbukum/mediascribe/validation"
)

// Backend names.
const (
	BackendWhisper = "whisper"
	BackendOpenAI  = "openai"
)

const (
	// DefaultModel is the canonical model used when a request names none.
	DefaultModel = "whisper-1"

	defaultBaseURL         = "https://api.openai.com/v1"
	hostedAPIHost          = "api.openai.com"
	defaultTimeout         = 5 * time.Minute
	defaultMaxResponseSize = "10MB"
)

// Config configures the transcription backend.
type Config struct {
	// Backend selects the provider: "whisper" or "openai".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=whisper openai"`
	// BaseURL is the API root, e.g. https://api.openai.com/v1.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	// APIKey authenticates against the API. Never logged. Required for the
	// hosted OpenAI API and Azure; self-hosted servers may run without one.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Model is used when a request does not name one.
	Model string `yaml:"model" mapstructure:"model" validate:"required"`
	// Language is passed to the backend when set.
	Language string `yaml:"language" mapstructure:"language"`
	// Prompt is passed to the backend when set.
	Prompt string `yaml:"prompt" mapstructure:"prompt"`
	// Timeout bounds one outbound call, upload included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	// MaxResponseSize caps the response body read from the API.
	MaxResponseSize string `yaml:"max_response_size" mapstructure:"max_response_size" validate:"bytesize"`
	// Azure switches the openai backend to Azure OpenAI.
	Azure AzureConfig `yaml:"azure" mapstructure:"azure"`
	// TLS configures private CAs and client certificates for the API.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// AzureConfig configures Azure OpenAI. It is used when Endpoint is set.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
	Deployment string `yaml:"deployment" mapstructure:"deployment"`
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`
}

// Enabled reports whether Azure OpenAI is configured.
func (a AzureConfig) Enabled() bool { return a.Endpoint != "" }

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendWhisper
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseSize == "" {
		c.MaxResponseSize = defaultMaxResponseSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.APIKey == "" && c.requiresKey() {
		return fmt.Errorf("api_key is required for %s (set OPENAI_API_KEY)", c.keyedTarget())
	}
	return c.TLS.Validate()
}

func (c *Config) requiresKey() bool {
	return c.Azure.Enabled() || c.hosted()
}

func (c *Config) hosted() bool {
	u, err := url.Parse(c.BaseURL)
	return err == nil && strings.EqualFold(u.Hostname(), hostedAPIHost)
}

func (c *Config) keyedTarget() string {
	if c.Azure.Enabled() {
		return "azure openai"
	}
	return hostedAPIHost
}
