package entity

import "fmt"

// ProviderError несёт транспортную ошибку платформенного API: есть HTTP-статус ответа.
// Именно такие ошибки нормализуются диспетчером в retry-after/статусные результаты.
type ProviderError struct {
	Platform   string
	StatusCode int
	Message    string
	// RetryAfter берётся из заголовка Retry-After в секундах, nil если заголовок отсутствует или невалиден
	RetryAfter *int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Platform, e.StatusCode, e.Message)
}

// ProviderFailure описывает отказ, который платформа вернула штатным ответом, без транспортной ошибки.
type ProviderFailure struct {
	Platform string
	Message  string
}

func (e *ProviderFailure) Error() string {
	return e.Message
}
