package usecase

import (
	"context"
	"errors"
)

var ErrNoValidToken = errors.New("no valid token available")

// TokenProvider выдаёт действующий access token для организации и платформы.
// Организация передаётся явным параметром в каждый вызов: один экземпляр
// провайдера безопасно используется конкурентными публикациями разных организаций.
type TokenProvider interface {
	// GetValidAccessToken возвращает действующий access token, при необходимости
	// обновляя его по refresh token. platform передаётся в нижнем регистре.
	GetValidAccessToken(ctx context.Context, organizationID int, platform string) (string, error)
}
