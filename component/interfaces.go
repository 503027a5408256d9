package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the service.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start prepares the component. It must not block.
	Start(ctx context.Context) error

	// Stop releases the component's resources.
	Stop(ctx context.Context) error

	// Health reports the current state.
	Health(ctx context.Context) Health
}

// Description is a component's entry in the startup summary.
type Description struct {
	// Name is the display name. Falls back to Component.Name when empty.
	Name string
	// Type categorizes the component: "server", "extractor", "telemetry".
	Type string
	// Details is a one-liner such as "0.0.0.0:8080" or "ffmpeg -> wav".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is implemented by components that report themselves in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route is a registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by server components to list their routes.
type RouteProvider interface {
	Routes() []Route
}
