package main

import (
	"context"
	"time"
)

// expireVouchersEvery deactivates expired vouchers once at start and then on
// every tick until ctx is done.
func (app *application) expireVouchersEvery(ctx context.Context, interval time.Duration) {
	sweep := func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		n, err := app.store.Vouchers.DeactivateExpired(ctx, time.Now())
		if err != nil {
			app.logger.Errorf("Error deactivating expired vouchers: %v", err)
			return
		}
		if n > 0 {
			app.logger.Infof("Deactivated %d expired vouchers at %s", n, time.Now().Format(time.RFC1123))
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sweep()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
