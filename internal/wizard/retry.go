package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gravity/internal/logger"
	"gravity/internal/models"
)

// retryWithBackoff runs operation up to maxRetries times, doubling the delay
// between attempts. Missing offers are not retried.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if errors.Is(err, models.ErrNotFound) {
			return err
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(fmt.Sprintf("%s failed, retrying", operationName), map[string]interface{}{
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, err)
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
