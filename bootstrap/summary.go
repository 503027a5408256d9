package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/mediascribe/component"
)

// Summary renders the startup banner: components, routes and live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Write prints the summary, collecting descriptions, routes and health from
// registry.
func (s *Summary) Write(w io.Writer, registry *component.Registry) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())
	if registry == nil {
		fmt.Fprintln(w)
		return
	}

	all := registry.All()
	var described []component.Component
	var routes []component.Route
	for _, c := range all {
		if _, ok := c.(component.Describable); ok {
			described = append(described, c)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(described) > 0 {
		fmt.Fprintf(w, "\n📊 Components\n")
		for i, c := range described {
			d := c.(component.Describable).Describe()
			name := d.Name
			if name == "" {
				name = c.Name()
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(described)), name, d.Type, d.Details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-6s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	health := registry.HealthAll(context.Background())
	if len(health) > 0 {
		fmt.Fprintf(w, "\n🏥 Health\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(health)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
