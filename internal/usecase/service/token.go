package service

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
	"golang.org/x/oauth2"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

// TokenService выдаёт действующие access token'ы по сохранённым подключениям.
// Протухшие токены обновляются через oauth2 refresh и сохраняются обратно.
type TokenService struct {
	tokenRepo repo.Token
	// oauthConfigs хранит конфигурацию oauth2 по платформам (нижний регистр);
	// платформы без refresh-потока могут отсутствовать
	oauthConfigs map[string]*oauth2.Config
}

func NewTokenService(tokenRepo repo.Token, oauthConfigs map[string]*oauth2.Config) usecase.TokenProvider {
	return &TokenService{
		tokenRepo:    tokenRepo,
		oauthConfigs: oauthConfigs,
	}
}

func (t *TokenService) GetValidAccessToken(ctx context.Context, organizationID int, platform string) (string, error) {
	stored, err := t.tokenRepo.GetToken(organizationID, platform)
	if err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			return "", usecase.ErrNoValidToken
		}
		return "", err
	}
	if !stored.Expired() {
		return stored.AccessToken, nil
	}
	return t.refresh(ctx, stored)
}

func (t *TokenService) refresh(ctx context.Context, stored *entity.SocialToken) (string, error) {
	config, ok := t.oauthConfigs[stored.Platform]
	if !ok || stored.RefreshToken == "" {
		// обновить нечем: токен протух окончательно
		return "", usecase.ErrNoValidToken
	}

	source := config.TokenSource(ctx, &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       *stored.ExpiresAt,
	})
	fresh, err := source.Token()
	if err != nil {
		log.Errorf("failed to refresh %s token for organization %d: %v", stored.Platform, stored.OrganizationID, err)
		return "", usecase.ErrNoValidToken
	}

	stored.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		stored.RefreshToken = fresh.RefreshToken
	}
	if !fresh.Expiry.IsZero() {
		expiry := fresh.Expiry
		stored.ExpiresAt = &expiry
	}
	if err := t.tokenRepo.UpdateAccessToken(stored.ID, stored); err != nil {
		// токен рабочий, просто не сохранился: логируем и отдаём как есть
		log.Errorf("failed to persist refreshed %s token: %v", stored.Platform, err)
	}
	return stored.AccessToken, nil
}
