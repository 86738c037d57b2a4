package scheduler

import (
	"context"
	"time"

	"graphics_monitor_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// EvaluatorScheduler drives the two periodic passes: the reminder check and
// the expiry check. Each pass runs under its own timeout so a stuck job
// cannot pile up behind the next tick.
type EvaluatorScheduler struct {
	cronEngine            *cron.Cron
	monitorService        app.MonitorService
	logger                *logrus.Entry
	cronSpecReminderCheck string
	cronSpecExpiryCheck   string
}

func NewEvaluatorScheduler(
	monitorService app.MonitorService,
	logger *logrus.Entry,
	cronSpecReminderCheck string, // e.g. "0 * * * *" (top of every hour)
	cronSpecExpiryCheck string, // e.g. "30 * * * *" (half past every hour)
) *EvaluatorScheduler {
	return &EvaluatorScheduler{
		cronEngine:            cron.New(cron.WithLocation(time.UTC)), // evaluator instants are stored in UTC
		monitorService:        monitorService,
		logger:                logger,
		cronSpecReminderCheck: cronSpecReminderCheck,
		cronSpecExpiryCheck:   cronSpecExpiryCheck,
	}
}

func (s *EvaluatorScheduler) Start() {
	s.logger.Info("Starting evaluator scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReminderCheck, func() {
		s.logger.Debug("Cron job triggered for reminder check")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.monitorService.ProcessDueReminders(ctx); err != nil {
			s.logger.WithError(err).Error("Reminder pass failed")
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add reminder check cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecExpiryCheck, func() {
		s.logger.Debug("Cron job triggered for expiry check")
		// Longer timeout: each expired record involves two outbound calls.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.monitorService.ProcessDueExpiries(ctx); err != nil {
			s.logger.WithError(err).Error("Expiry pass failed")
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add expiry check cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Evaluator scheduler started with jobs")
}

func (s *EvaluatorScheduler) Stop() {
	s.logger.Info("Stopping evaluator scheduler...")
	ctx := s.cronEngine.Stop() // no new runs; wait for in-flight jobs
	<-ctx.Done()
	s.logger.Info("Evaluator scheduler gracefully stopped")
}
