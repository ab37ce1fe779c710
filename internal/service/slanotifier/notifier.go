// Package slanotifier fans deadline alerts out to every configured sink.
package slanotifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lowrester/Veriqko/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the alert notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Service dispatches deadline alerts to all registered sinks.
type Service struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewService constructs an alert notifier.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "sla_notifier")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{
			Name: name,
			Sink: entry.Sink,
		})
	}

	return &Service{
		logger: logger,
		sinks:  sinks,
	}
}

// NotifySLAAlert fans the alert out to all sinks in parallel. The alert
// counts as delivered when at least one sink accepts it; the returned
// error is the joined failure set otherwise. Callers must not latch the
// notification timestamp on error.
func (s *Service) NotifySLAAlert(ctx context.Context, payload notify.SLAAlertPayload) error {
	if len(s.sinks) == 0 {
		return errors.New("no alert sinks configured")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failures  []error
		delivered bool
	)
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendSLAAlert(ctx, payload); err != nil {
				s.logger.Error("sla alert delivery error",
					"sink", entry.Name,
					"job_id", payload.JobID,
					"level", payload.Level,
					"error", err,
				)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			delivered = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if delivered {
		return nil
	}
	return errors.Join(failures...)
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
