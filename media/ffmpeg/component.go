package ffmpeg

import (
	"context"
	"fmt"

	"github.com/kbukum/mediascribe/component"
	"github.com/kbukum/mediascribe/logger"
)

const componentName = "ffmpeg"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component registers the extractor with the lifecycle registry. A missing
// binary does not fail startup: audio uploads still pass through, and video
// uploads report EXTRACTION_UNAVAILABLE.
type Component struct {
	extractor *Extractor
}

// NewComponent wraps e.
func NewComponent(e *Extractor) *Component {
	return &Component{extractor: e}
}

// Name returns the registration name.
func (c *Component) Name() string { return componentName }

// Start probes the binary and logs the result.
func (c *Component) Start(ctx context.Context) error {
	if err := c.extractor.Available(ctx); err != nil {
		c.extractor.log.Warn("ffmpeg not available, video uploads will fail", logger.Fields(
			"binary", c.extractor.cfg.Binary,
			logger.FieldError, err.Error(),
		))
		return nil
	}
	c.extractor.log.Info("ffmpeg available", logger.Fields(
		"binary", c.extractor.cfg.Binary,
		"format", c.extractor.format.Name,
	))
	return nil
}

// Stop is a no-op; every extraction owns its own process.
func (c *Component) Stop(_ context.Context) error { return nil }

// Health reports degraded when the binary cannot be resolved.
func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.extractor.Available(ctx); err != nil {
		return component.Health{Name: componentName, Status: component.StatusDegraded, Message: err.Error()}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns the summary line.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Audio Extraction",
		Type:    "extractor",
		Details: fmt.Sprintf("%s -> %s timeout=%s", c.extractor.cfg.Binary, c.extractor.format.Name, c.extractor.cfg.Timeout),
	}
}
