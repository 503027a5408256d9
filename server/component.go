package server

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/mediascribe/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Probe and build-info routes, listed after the API routes in the summary.
var systemPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/version": true,
}

// Component registers a Server with the lifecycle registry.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the registration name.
func (sc *Component) Name() string { return componentName }

// Start starts the server.
func (sc *Component) Start(ctx context.Context) error { return sc.server.Start(ctx) }

// Stop shuts the server down.
func (sc *Component) Stop(ctx context.Context) error { return sc.server.Stop(ctx) }

// Health reports whether the listener is bound.
func (sc *Component) Health(_ context.Context) component.Health {
	if sc.server.running() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
}

// Describe returns the summary line.
func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s max_upload=%s max_concurrent=%d", cfg.Addr(), cfg.MaxUploadSize, cfg.MaxConcurrent),
		Port:    cfg.Port,
	}
}

// Routes lists registered routes, API routes first.
func (sc *Component) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()

	sort.Slice(ginRoutes, func(i, j int) bool {
		iSys, jSys := systemPaths[ginRoutes[i].Path], systemPaths[ginRoutes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return ginRoutes[i].Method < ginRoutes[j].Method
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handlerName(r.Handler),
		})
	}
	return routes
}

// handlerName shortens Gin's handler path, e.g.
// "github.com/kbukum/mediascribe/server/endpoint.Transcribe.func1" -> "endpoint.Transcribe".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	parts := strings.Split(name, ".")
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}
	name = strings.Join(parts, ".")
	name = strings.ReplaceAll(name, "(*", "")
	return strings.ReplaceAll(name, ")", "")
}
