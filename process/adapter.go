package process

import (
	"context"
	"time"
)

// Config holds defaults applied to every command run through a Runner.
type Config struct {
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// StderrLimit is the default stderr tail size in bytes.
	StderrLimit int `yaml:"stderr_limit,omitempty" mapstructure:"stderr_limit"`
}

// Runner executes commands with shared defaults.
type Runner struct {
	config Config
}

// NewRunner creates a Runner.
func NewRunner(cfg Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes a command, applying runner-level defaults.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	if cmd.StderrLimit == 0 {
		cmd.StderrLimit = r.config.StderrLimit
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}
