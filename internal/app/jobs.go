package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const limiterMaxIdle = 10 * time.Minute

// Schedule registers the housekeeping jobs. The caller starts and stops the
// returned scheduler.
func (a *App) Schedule(ctx context.Context, retention time.Duration, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc("@every 5m", func() {
		if n := a.LoginLimiter.Cleanup(limiterMaxIdle); n > 0 {
			log.WithField("removed", n).Debug("rate limiter cleanup")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@hourly", func() {
		// errors are logged by the service
		_, _ = a.Notifications.CleanupRead(ctx, retention)
	}); err != nil {
		return nil, err
	}

	return c, nil
}
