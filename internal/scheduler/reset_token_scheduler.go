package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/pkg/logger"
)

// ResetTokenScheduler periodically clears expired password reset tokens.
// Reset requests expire on their own, this just keeps the stale hashes from
// piling up on user rows.
type ResetTokenScheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
}

func NewResetTokenScheduler(userRepo repository.UserRepository) *ResetTokenScheduler {
	return &ResetTokenScheduler{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

// Start schedules the daily cleanup run
func (s *ResetTokenScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled reset token cleanup", nil)

		cleared, err := s.userRepo.ClearExpiredResetTokens()
		if err != nil {
			logger.Error("Failed to clear expired reset tokens", err)
			return
		}

		logger.Info("Expired reset tokens cleared", map[string]interface{}{
			"cleared": cleared,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for reset token cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Reset token scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop stops the scheduler
func (s *ResetTokenScheduler) Stop() {
	logger.Info("Stopping reset token scheduler...", nil)
	s.cron.Stop()
	logger.Info("Reset token scheduler stopped", nil)
}
