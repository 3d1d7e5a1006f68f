package locker

import (
	"context"
	"time"

	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// KeepAlive refreshes a held lock at half its TTL until the returned stop
// function is called or ctx ends.
func KeepAlive(ctx context.Context, log *zap.Logger, lockerSvc contracts.LockerService, key, token string, ttl time.Duration) (stop func()) {
	refreshCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				log.Info("locker.KeepAlive refreshing lock TTL",
					zap.String(constvars.LoggingRedisKey, key),
					zap.Duration(constvars.LoggingLockTTLKey, ttl),
				)
				if err := lockerSvc.Refresh(refreshCtx, key, token, ttl); err != nil {
					log.Warn("locker.KeepAlive failed to refresh lock TTL",
						zap.String(constvars.LoggingRedisKey, key),
						zap.Error(err),
					)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
