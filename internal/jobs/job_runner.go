package jobs

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"arendol-backend/internal/config"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/metrics"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository"
	"arendol-backend/internal/service"
)

// Repos holds the repository dependencies needed by jobs.
type Repos struct {
	Bookings repository.BookingRepository
	Items    repository.ItemRepository
	Users    repository.UserRepository
	Messages repository.MessageRepository
	Reviews  repository.ReviewRepository
	Logs     repository.NotificationLogRepository
}

// JobRunner coordinates all scheduled sweeps.
type JobRunner struct {
	repos      Repos
	bookingSvc service.BookingService
	dispatcher notify.Dispatcher
	config     *config.Config
	now        func() time.Time
}

// NewJobRunner creates a job runner with all dependencies.
func NewJobRunner(repos Repos, bookingSvc service.BookingService, dispatcher notify.Dispatcher, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:      repos,
		bookingSvc: bookingSvc,
		dispatcher: dispatcher,
		config:     cfg,
		now:        time.Now,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runSubSweep wraps one sub-sweep with panic recovery, error prefixing and a
// duration metric. A panicking or failing sub-sweep never takes down its
// siblings.
func (jr *JobRunner) runSubSweep(name string, fn func() (int, []error)) (count int, errs []error) {
	timer := prometheus.NewTimer(metrics.SweepDuration.WithLabelValues(name))
	defer timer.ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Sub-sweep panicked", "sweep", name, "panic", r)
			metrics.SweepErrors.WithLabelValues(name).Inc()
			errs = append(errs, fmt.Errorf("%s: panic: %v", name, r))
		}
	}()

	logger.Debug("Starting sub-sweep", "sweep", name)
	count, raw := fn()
	for _, err := range raw {
		metrics.SweepErrors.WithLabelValues(name).Inc()
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	logger.Debug("Sub-sweep completed", "sweep", name, "count", count, "errors", len(raw))
	return count, errs
}
