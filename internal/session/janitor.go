package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger is a session store able to drop expired records in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunJanitor purges expired sessions every interval until ctx is cancelled.
func RunJanitor(ctx context.Context, p Purger, interval time.Duration, logs *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				logs.Errorw("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logs.Debugw("purged expired sessions", "count", n)
			}
		}
	}
}
