package scraper

import (
	"context"
	"errors"
	"time"
)

// retryWithBackoff 以递增间隔重试 fn，最多 attempts 次。
// 每次失败后等待时间翻倍（封顶 max），ctx 取消时立即退出。
func retryWithBackoff(ctx context.Context, attempts int, initial, max time.Duration, fn func(attempt int) error) error {
	if attempts <= 0 {
		return errors.New("retry: attempts must be positive")
	}

	d := initial
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
			if d < max {
				d *= 2
				if d > max {
					d = max
				}
			}
		}

		if lastErr = fn(i); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
