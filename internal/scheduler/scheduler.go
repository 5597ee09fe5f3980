package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/config"
	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/service/reporting"
)

const dateLayout = "2006-01-02"

// SummaryStore persists the aggregated day figures.
type SummaryStore interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	store        SummaryStore
	cfg          config.SummaryConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.SummaryConfig, reportingSvc *reporting.Service, store SummaryStore, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		store:        store,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.writeDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) writeDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	day := now.Format(dateLayout)
	summary := s.reportingSvc.DailySummary(day, now)

	if err := s.store.SaveDailySummary(ctx, summary); err != nil {
		s.logger.Error("failed to save daily summary", zap.String("date", day), zap.Error(err))
		return
	}

	s.logger.Info("daily summary saved",
		zap.String("date", day),
		zap.Int("records", summary.Records),
		zap.Int64("total_amount", summary.TotalAmount))
}
