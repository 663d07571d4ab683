package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunPeriodic invokes fn on the given interval until ctx is cancelled.
// The first run happens after one full interval, mirroring the cron
// trigger it replaces. Errors are logged, never fatal.
func RunPeriodic(ctx context.Context, name string, interval time.Duration, logger *zap.Logger, fn func(context.Context) error) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Sugar().Infow("periodic job started", "job", name, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Sugar().Infow("periodic job stopped", "job", name)
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				logger.Sugar().Warnw("periodic job run failed", "job", name, "error", err)
			}
		}
	}
}
