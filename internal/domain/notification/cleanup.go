package notification

import (
	"context"
	"time"
)

// CleanupRead deletes read notifications older than retention. Unread ones
// are kept regardless of age.
func (s *Service) CleanupRead(ctx context.Context, retention time.Duration) (int64, error) {
	start := time.Now()

	deleted, err := s.repo.DeleteReadOlderThan(ctx, start.Add(-retention))
	if err != nil {
		s.log.WithError(err).Error("notification cleanup failed")
		return 0, err
	}

	s.log.WithField("deleted", deleted).
		WithField("took", time.Since(start).String()).
		Info("notification cleanup completed")
	return deleted, nil
}
