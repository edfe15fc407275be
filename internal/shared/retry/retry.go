package retry

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
)

// WithRetry выполняет op до attempts раз с экспоненциальным бэкоффом от sleep до 5s.
// Прерывается по ctx. Внутри тика не используется: там повтор — следующий тик.
func WithRetry(ctx context.Context, attempts int, sleep time.Duration, op func(ctx context.Context) error) error {
	b := &backoff.Backoff{Min: sleep, Max: 5 * time.Second, Factor: 2}
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
