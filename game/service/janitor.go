package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RunJanitor expires idle sessions every interval until ctx is done
func RunJanitor(ctx context.Context, svc GameService, interval, maxAge time.Duration, logger logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.ExpireSessions(ctx, maxAge)
			if err != nil {
				if ctx.Err() == nil {
					logger.WithError(err).Warn("session expiry failed")
				}
				continue
			}
			if removed > 0 {
				logger.WithFields(logrus.Fields{
					"removed": removed,
					"max_age": maxAge.String(),
				}).Info("expired sessions removed")
			}
		}
	}
}
