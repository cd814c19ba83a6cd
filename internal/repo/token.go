package repo

import (
	"errors"

	"socialflow-backend/internal/entity"
)

var ErrTokenNotFound = errors.New("token not found")

type Token interface {
	// GetToken возвращает подключение организации к платформе (platform в нижнем регистре)
	GetToken(organizationID int, platform string) (*entity.SocialToken, error)
	// GetTokens возвращает все подключения организации
	GetTokens(organizationID int) ([]*entity.SocialToken, error)
	// UpsertToken сохраняет подключение, заменяя прежнее для той же пары организация+платформа
	UpsertToken(token *entity.SocialToken) (int, error)
	// UpdateAccessToken обновляет access token после refresh
	UpdateAccessToken(tokenID int, token *entity.SocialToken) error
	// DeleteToken удаляет подключение
	DeleteToken(organizationID int, platform string) error
}
