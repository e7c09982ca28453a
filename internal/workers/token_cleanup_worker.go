package workers

import (
	"context"
	"time"

	"castboard_backend/internal/logger"
	"castboard_backend/internal/repositories"

	"gorm.io/gorm"
)

// TokenCleanupWorker периодически удаляет истекшие refresh-токены.
type TokenCleanupWorker struct {
	db       *gorm.DB
	repo     repositories.RefreshTokenRepository
	interval time.Duration
	now      func() time.Time
}

func NewTokenCleanupWorker(db *gorm.DB, interval time.Duration) *TokenCleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleanupWorker{
		db:       db,
		repo:     repositories.NewRefreshTokenRepository(),
		interval: interval,
		now:      time.Now,
	}
}

// Start запускает очистку в отдельной горутине до отмены ctx
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TokenCleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход очистки. Возвращает число удаленных записей.
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int64 {
	removed, err := w.repo.CleanExpired(w.db.WithContext(ctx), w.now().UTC())
	if err != nil {
		logger.Error("Error cleaning expired refresh tokens", "error", err)
		return 0
	}
	if removed > 0 {
		logger.Info("Removed expired refresh tokens", "count", removed)
	}
	return removed
}
