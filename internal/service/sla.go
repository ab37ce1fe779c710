package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lowrester/Veriqko/config"
	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	obserrors "github.com/lowrester/Veriqko/internal/observability/errors"
	"github.com/lowrester/Veriqko/internal/observability/metrics"
	"github.com/lowrester/Veriqko/internal/observability/notify"
	"github.com/lowrester/Veriqko/internal/observability/statsd"
	"github.com/lowrester/Veriqko/internal/service/slanotifier"
)

// SLAMonitorServiceOptions groups dependencies for SLAMonitorService.
type SLAMonitorServiceOptions struct {
	Repo         core.SLARepository        // Required: deadline sweep repository
	Notifier     *slanotifier.Service      // Required: alert fan-out
	Config       config.SLAMonitorConfig   // Required: monitor configuration
	Technicians  core.TechnicianRepository // Optional: recipient resolution
	Logger       *slog.Logger              // Optional: structured logger
	Metrics      statsd.Sink               // Optional: metrics sink (StatsD-compatible)
	TimeProvider data.TimeProvider
}

// SLAMonitorService watches active job deadlines and sends one-shot alerts.
//
// Each sweep walks active jobs that carry a deadline and:
// - Sends a breach alert once when the deadline has passed.
// - Sends a warning alert once when the deadline is inside the warning window.
// A breach discovered before the warning fired supersedes the warning; the
// warning for that job is never sent. Notification timestamps latch only
// after a sink accepted the alert, so failed deliveries retry next sweep.
type SLAMonitorService struct {
	repo         core.SLARepository
	notifier     *slanotifier.Service
	config       config.SLAMonitorConfig
	technicians  core.TechnicianRepository
	logger       *slog.Logger
	metrics      statsd.Sink
	timeProvider data.TimeProvider
}

// NewSLAMonitorService constructs a new SLAMonitorService.
func NewSLAMonitorService(opts SLAMonitorServiceOptions) (*SLAMonitorService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SLARepository is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("slanotifier.Service is required")
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sla_monitor")
		logger.Debug("SLAMonitorService initialized",
			"interval", opts.Config.Interval,
			"warning_window", opts.Config.WarningWindow,
			"batch_size", opts.Config.BatchSize,
		)
	}

	return &SLAMonitorService{
		repo:         opts.Repo,
		notifier:     opts.Notifier,
		config:       opts.Config,
		technicians:  opts.Technicians,
		logger:       logger,
		metrics:      opts.Metrics,
		timeProvider: timeProvider,
	}, nil
}

// MustNewSLAMonitorService constructs a new SLAMonitorService and panics on error.
func MustNewSLAMonitorService(opts SLAMonitorServiceOptions) *SLAMonitorService {
	svc, err := NewSLAMonitorService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create SLAMonitorService: %v", err))
	}
	return svc
}

// Run starts the sweep loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SLAMonitorService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sla monitor", "interval", s.config.Interval)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Sweep immediately after jitter
	if err := s.sweepAndLog(ctx, "initial sweep"); err != nil && !isContextCancellation(err) {
		// Continue running despite errors
		_ = err
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sla monitor stopping", "reason", ctx.Err())
			}
			// Return nil on graceful shutdown to avoid treating it as a failure
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.sweepAndLog(ctx, "sweep"); err != nil {
				if isContextCancellation(err) {
					continue
				}
				// Continue running despite errors
			}
		}
	}
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *SLAMonitorService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

func (s *SLAMonitorService) sweepAndLog(ctx context.Context, label string) error {
	err := s.Sweep(ctx)
	if err == nil || s.logger == nil {
		return err
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return err
	}

	s.logger.Error(label+" failed", "error", err)
	return err
}

// SweepOutcome summarizes one pass over the deadline candidates.
type SweepOutcome struct {
	Scanned  int
	Warnings int
	Breaches int
}

// Sweep performs a single pass over active jobs with deadlines. A failure
// on one job never blocks the rest of the batch; the joined error set is
// returned after the full pass.
func (s *SLAMonitorService) Sweep(ctx context.Context) error {
	start := time.Now()

	jobs, err := s.repo.ListSLACandidates(ctx, s.config.BatchSize)
	if err != nil {
		s.emitSweepMetrics(SweepOutcome{}, time.Since(start), err)
		return fmt.Errorf("list sla candidates: %w", err)
	}

	now := s.timeProvider.Now()
	outcome := SweepOutcome{Scanned: len(jobs)}
	var errs []error

	for _, job := range jobs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		sent, level, jobErr := s.checkJob(ctx, job, now)
		if jobErr != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", job.ID, jobErr))
			continue
		}
		if !sent {
			continue
		}
		switch level {
		case notify.LevelBreached:
			outcome.Breaches++
		case notify.LevelWarning:
			outcome.Warnings++
		}
	}

	joined := errors.Join(errs...)
	s.emitSweepMetrics(outcome, time.Since(start), joined)

	if s.logger != nil && (outcome.Warnings > 0 || outcome.Breaches > 0) {
		s.logger.InfoContext(ctx, "sla sweep sent alerts",
			"scanned", outcome.Scanned,
			"warnings", outcome.Warnings,
			"breaches", outcome.Breaches,
		)
	}

	if joined != nil {
		if isContextCancellation(joined) {
			return context.Canceled
		}
		return fmt.Errorf("sla sweep: %w", joined)
	}
	return nil
}

// checkJob evaluates one job against the clock. Returns whether an alert
// was sent and at what level.
func (s *SLAMonitorService) checkJob(
	ctx context.Context,
	job *model.Job,
	now time.Time,
) (bool, string, error) {
	if job.SLADueAt == nil {
		return false, "", nil
	}
	due := *job.SLADueAt

	// A passed deadline supersedes the warning entirely. The warning latch
	// for such a job stays unset forever.
	if due.Before(now) {
		if job.SLABreachNotifiedAt != nil {
			return false, "", nil
		}
		if err := s.sendAndLatch(ctx, job, notify.LevelBreached, now, s.repo.MarkBreachNotified); err != nil {
			return false, "", err
		}
		return true, notify.LevelBreached, nil
	}

	if due.Sub(now) < s.config.WarningWindow {
		if job.SLAWarningNotifiedAt != nil {
			return false, "", nil
		}
		if err := s.sendAndLatch(ctx, job, notify.LevelWarning, now, s.repo.MarkWarningNotified); err != nil {
			return false, "", err
		}
		return true, notify.LevelWarning, nil
	}

	return false, "", nil
}

// sendAndLatch delivers the alert and then latches the notification
// timestamp. The latch is conditional in the database, so a concurrent
// sweep that already latched makes this a no-op rather than a double send
// next time around.
func (s *SLAMonitorService) sendAndLatch(
	ctx context.Context,
	job *model.Job,
	level string,
	now time.Time,
	latch func(context.Context, string) (bool, error),
) error {
	payload := notify.SLAAlertPayload{
		JobID:        job.ID,
		SerialNumber: job.SerialNumber,
		Status:       string(job.Status),
		Level:        level,
		Recipient:    s.resolveRecipient(ctx, job),
		DueAt:        *job.SLADueAt,
		OccurredAt:   now,
	}

	if err := s.notifier.NotifySLAAlert(ctx, payload); err != nil {
		return fmt.Errorf("send %s alert: %w", level, err)
	}

	latched, err := latch(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("latch %s notification: %w", level, err)
	}
	if !latched && s.logger != nil {
		s.logger.WarnContext(ctx, "sla latch was already set or job closed",
			"job_id", job.ID,
			"level", level,
		)
	}

	return nil
}

// resolveRecipient prefers the assigned technician's email and falls back
// to the configured default.
func (s *SLAMonitorService) resolveRecipient(ctx context.Context, job *model.Job) string {
	if job.TechnicianID != nil && s.technicians != nil {
		tech, err := s.technicians.GetByID(ctx, *job.TechnicianID)
		if err == nil && tech.Email != "" {
			return tech.Email
		}
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to resolve technician for alert",
				"job_id", job.ID,
				"technician_id", *job.TechnicianID,
				"error", err,
			)
		}
	}
	return s.config.DefaultRecipient
}

func (s *SLAMonitorService) emitSweepMetrics(outcome SweepOutcome, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil && !isContextCancellation(err) {
		result = metrics.ResultError
	} else if outcome.Warnings+outcome.Breaches == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"result": result,
	}
	if err != nil && !isContextCancellation(err) {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	s.metrics.Count("sla_monitor.sweep", 1, tags)

	if elapsed > 0 {
		s.metrics.Timing("sla_monitor.sweep_duration", elapsed, metrics.CloneTags(tags))
	}

	if outcome.Warnings > 0 {
		s.metrics.Count("sla_monitor.warnings_sent", int64(outcome.Warnings), nil)
	}
	if outcome.Breaches > 0 {
		s.metrics.Count("sla_monitor.breaches_sent", int64(outcome.Breaches), nil)
	}

	if result != metrics.ResultError {
		s.metrics.Gauge("sla_monitor.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
