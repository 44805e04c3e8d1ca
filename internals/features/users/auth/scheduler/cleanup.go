package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	authRepo "biolab_backend/internals/features/users/auth/repository"
	"biolab_backend/internals/helpers/logger"
)

// StartBlacklistCleanupScheduler purges expired blacklist entries every interval until ctx is
// done. Entries are kept for grace after expiry.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, log *logger.Logger, interval, grace time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			RunBlacklistCleanup(ctx, db, log, grace)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, log *logger.Logger, grace time.Duration) int64 {
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, time.Now().UTC().Add(-grace))
	if err != nil {
		log.Error("blacklist cleanup failed", "error", err)
		return 0
	}
	if n > 0 {
		log.Info("blacklist cleanup", "deleted", n)
	}
	return n
}
