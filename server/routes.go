package server

import (
	"sort"
	"strings"
)

// Route describes one registered endpoint.
type Route struct {
	Method  string
	Path    string
	Handler string
	System  bool
}

var systemPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/info":    true,
	"/version": true,
	"/metrics": true,
}

// Routes lists the registered Gin routes, API routes first, each group
// sorted by path and then method.
func (s *Server) Routes() []Route {
	infos := s.engine.Routes()
	routes := make([]Route, 0, len(infos))
	for _, r := range infos {
		routes = append(routes, Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
			System:  systemPaths[r.Path],
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].System != routes[j].System {
			return !routes[i].System
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

// formatHandlerName extracts a short handler name from Gin's full handler path,
// e.g. "github.com/kbukum/diarsplit/api.(*Handler).Split-fm" becomes "Handler.Split"
// and "github.com/kbukum/diarsplit/server/endpoint.Health.func1" becomes "health".
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// Drop a lowercase package prefix: "api.Handler.Split" -> "Handler.Split".
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		name = rest
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
