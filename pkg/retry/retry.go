package retry

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	goretry "github.com/sethvargo/go-retry"
)

const (
	maxRetries        = 5
	retryInitialDelay = time.Millisecond * 100
)

// Retry выполняет операцию с экспоненциальной задержкой между попытками.
// Используется для внутренних записей (статусы, метрики), которые не должны
// падать из-за кратковременных проблем с базой. Возвращает nil при успехе
// или последнюю ошибку, если все попытки исчерпаны.
func Retry(operation func() error) error {
	backoff := goretry.WithMaxRetries(maxRetries, goretry.NewExponential(retryInitialDelay))
	attempt := 0
	return goretry.Do(context.Background(), backoff, func(_ context.Context) error {
		if err := operation(); err != nil {
			log.Errorf("error during retry %d: %v", attempt, err)
			attempt++
			return goretry.RetryableError(err)
		}
		return nil
	})
}
