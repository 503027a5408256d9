package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/kbukum/mediascribe/config"
	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/media/ffmpeg"
	"github.com/kbukum/mediascribe/observability"
	"github.com/kbukum/mediascribe/server"
	"github.com/kbukum/mediascribe/transcription"
	"github.com/kbukum/mediascribe/version"
)

const serviceName = "mediascribe"

// AppConfig is the complete mediascribe configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config          `yaml:"server" mapstructure:"server"`
	Extraction    ffmpeg.Config          `yaml:"extraction" mapstructure:"extraction"`
	Transcription transcription.Config   `yaml:"transcription" mapstructure:"transcription"`
	Media         media.ClassifierConfig `yaml:"media" mapstructure:"media"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Extraction.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Media.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all failures at once.
func (c *AppConfig) Validate() error {
	var result *multierror.Error
	sections := []struct {
		name     string
		validate func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"extraction", c.Extraction.Validate},
		{"transcription", c.Transcription.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return result.ErrorOrNil()
}

// loadConfig reads config.yml, .env and the environment into an AppConfig
// with defaults applied.
func loadConfig(configFile, envFile string) (*AppConfig, error) {
	opts := []config.LoaderOption{
		config.WithEnvAlias("OPENAI_API_KEY", "transcription.api_key"),
		config.WithEnvAlias("OPENAI_BASE_URL", "transcription.base_url"),
		config.WithEnvAlias("FFMPEG_PATH", "extraction.binary"),
		config.WithEnvAlias("PORT", "server.port"),
	}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
