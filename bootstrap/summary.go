package bootstrap

import (
	"fmt"
	"io"
	"time"

	tablewriter "github.com/djthorpe/go-tablewriter"

	"github.com/kbukum/diarsplit/observability"
)

// InfrastructureInfo is one started piece of infrastructure, such as the
// HTTP listener or the telemetry exporter.
type InfrastructureInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Details string `json:"details" writer:",width:50"`
}

// RouteInfo is one registered HTTP route.
type RouteInfo struct {
	Method  string `json:"method" writer:",width:7"`
	Path    string `json:"path" writer:",width:24"`
	Handler string `json:"handler" writer:",width:40"`
}

type healthRow struct {
	Name    string `json:"dependency"`
	Status  string `json:"status" writer:",width:8"`
	Message string `json:"message" writer:",wrap,width:50"`
}

// Summary collects what the application started and prints it once ready.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
}

// NewSummary creates a summary for a service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure records a started piece of infrastructure.
func (s *Summary) TrackInfrastructure(name, kind, details string) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{Name: name, Type: kind, Details: details})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// Routes returns the tracked routes.
func (s *Summary) Routes() []RouteInfo {
	return s.routes
}

// Display writes the summary as text tables to w. health may be nil.
func (s *Summary) Display(w io.Writer, health *observability.ServiceHealth) error {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n\n", s.serviceName, version, s.startupDuration.Seconds())

	table := tablewriter.New(w, tablewriter.OptOutputText())
	if len(s.infrastructure) > 0 {
		if err := table.Write(s.infrastructure, tablewriter.OptHeader()); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if len(s.routes) > 0 {
		fmt.Fprintf(w, "Routes (%d)\n", len(s.routes))
		if err := table.Write(s.routes, tablewriter.OptHeader()); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if health != nil && len(health.Components) > 0 {
		rows := make([]healthRow, 0, len(health.Components))
		for _, h := range health.Components {
			rows = append(rows, healthRow{Name: h.Name, Status: string(h.Status), Message: h.Message})
		}
		fmt.Fprintf(w, "Health: %s\n", health.Status)
		if err := table.Write(rows, tablewriter.OptHeader()); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
