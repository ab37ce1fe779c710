package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSLAMonitor runs the deadline sweep worker.
	ServiceModeSLAMonitor ServiceMode = "sla-monitor"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSLAMonitor,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSLAMonitor:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, sla-monitor)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SLAMonitorConfig contains deadline sweep worker configuration.
type SLAMonitorConfig struct {
	// Interval is the sweep tick interval.
	Interval time.Duration `env:"SLA_MONITOR_INTERVAL" envDefault:"5m"`

	// WarningWindow is how far ahead of the deadline a warning alert fires.
	WarningWindow time.Duration `env:"SLA_MONITOR_WARNING_WINDOW" envDefault:"2h"`

	// BatchSize is the maximum number of candidate jobs per sweep.
	BatchSize int `env:"SLA_MONITOR_BATCH_SIZE" envDefault:"500"`

	// DefaultRecipient receives alerts for jobs without an assigned technician.
	DefaultRecipient string `env:"SLA_MONITOR_DEFAULT_RECIPIENT" envDefault:"manager@veriqko.local"`
}

// Sanitize applies guardrails to SLA monitor configuration values.
func (s *SLAMonitorConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if s.Interval < 30*time.Second {
		s.Interval = 30 * time.Second
	}
	if s.WarningWindow < 5*time.Minute {
		s.WarningWindow = 5 * time.Minute
	}

	// Enforce batch size bounds to prevent excessive locks or inefficiency
	if s.BatchSize < 1 {
		s.BatchSize = 1
	}
	if s.BatchSize > 10000 {
		s.BatchSize = 10000
	}

	s.DefaultRecipient = strings.TrimSpace(s.DefaultRecipient)
}

// FloorFeedConfig contains floor board streaming configuration.
type FloorFeedConfig struct {
	// Interval is the delay between snapshot pushes on the SSE stream.
	Interval time.Duration `env:"FLOOR_FEED_INTERVAL" envDefault:"5s"`

	// RecentJobs is how many jobs the dashboard's recent list carries.
	RecentJobs int `env:"FLOOR_FEED_RECENT_JOBS" envDefault:"5"`

	// LeaderboardDays is the default technician leaderboard window in days.
	LeaderboardDays int `env:"FLOOR_FEED_LEADERBOARD_DAYS" envDefault:"7"`
}

// Sanitize applies guardrails to floor feed configuration values.
func (f *FloorFeedConfig) Sanitize() {
	if f.Interval < time.Second {
		f.Interval = time.Second
	}
	if f.RecentJobs < 1 {
		f.RecentJobs = 1
	}
	if f.RecentJobs > 100 {
		f.RecentJobs = 100
	}
	if f.LeaderboardDays < 1 {
		f.LeaderboardDays = 1
	}
}
