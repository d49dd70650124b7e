package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/sibors/sibors-backend/pkg/logger"
)

// DefaultLedgerSchedule runs the check every day at 3:00
const DefaultLedgerSchedule = "0 3 * * *"

// LedgerVerifier is the part of StockService the job needs
type LedgerVerifier interface {
	VerifyAllLedgers() ([]service.LedgerReport, error)
}

// LedgerScheduler replays every variant's ledger on a cron schedule
type LedgerScheduler struct {
	cron     *cron.Cron
	schedule string
	verifier LedgerVerifier
}

func NewLedgerScheduler(verifier LedgerVerifier, schedule string) *LedgerScheduler {
	if schedule == "" {
		schedule = DefaultLedgerSchedule
	}
	return &LedgerScheduler{
		cron:     cron.New(),
		schedule: schedule,
		verifier: verifier,
	}
}

// Start registers the job and starts the cron runner
func (s *LedgerScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce()
	})
	if err != nil {
		logger.Error("Failed to add cron job for ledger check", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Ledger scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce replays every ledger and returns how many variants disagree
// with their stored stock.
func (s *LedgerScheduler) RunOnce() int {
	logger.Info("Starting scheduled ledger check")

	reports, err := s.verifier.VerifyAllLedgers()
	if err != nil {
		logger.Error("Failed to verify ledgers from scheduler", err)
		return 0
	}

	inconsistent := 0
	for _, r := range reports {
		if !r.Consistent {
			inconsistent++
		}
	}

	if inconsistent > 0 {
		logger.Warn("Ledger check found inconsistencies", map[string]interface{}{
			"variants":     len(reports),
			"inconsistent": inconsistent,
		})
	} else {
		logger.Info("Ledger check completed", map[string]interface{}{
			"variants": len(reports),
		})
	}
	return inconsistent
}

func (s *LedgerScheduler) Stop() {
	logger.Info("Stopping ledger scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Ledger scheduler stopped")
}
