package cockroach

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

type TokenDB struct {
	db *sqlx.DB
}

func NewToken(db *sqlx.DB) repo.Token {
	return &TokenDB{db: db}
}

func (t *TokenDB) GetToken(organizationID int, platform string) (*entity.SocialToken, error) {
	token := &entity.SocialToken{}
	query := `
        SELECT id, organization_id, platform, access_token, COALESCE(refresh_token, '') AS refresh_token,
               expires_at, created_at, updated_at
        FROM social_token
        WHERE organization_id = $1 AND platform = $2
    `
	err := t.db.Get(token, query, organizationID, platform)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

func (t *TokenDB) GetTokens(organizationID int) ([]*entity.SocialToken, error) {
	var tokens []*entity.SocialToken
	query := `
        SELECT id, organization_id, platform, access_token, COALESCE(refresh_token, '') AS refresh_token,
               expires_at, created_at, updated_at
        FROM social_token
        WHERE organization_id = $1
        ORDER BY platform
    `
	err := t.db.Select(&tokens, query, organizationID)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (t *TokenDB) UpsertToken(token *entity.SocialToken) (int, error) {
	query := `
        INSERT INTO social_token (organization_id, platform, access_token, refresh_token, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (organization_id, platform)
        DO UPDATE SET access_token = $3, refresh_token = $4, expires_at = $5, updated_at = $6
        RETURNING id
    `
	var id int
	err := t.db.QueryRow(
		query,
		token.OrganizationID,
		token.Platform,
		token.AccessToken,
		token.RefreshToken,
		token.ExpiresAt,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (t *TokenDB) UpdateAccessToken(tokenID int, token *entity.SocialToken) error {
	query := `
        UPDATE social_token
        SET access_token = $2, refresh_token = $3, expires_at = $4, updated_at = $5
        WHERE id = $1
    `
	_, err := t.db.Exec(query, tokenID, token.AccessToken, token.RefreshToken, token.ExpiresAt, time.Now())
	return err
}

func (t *TokenDB) DeleteToken(organizationID int, platform string) error {
	query := `DELETE FROM social_token WHERE organization_id = $1 AND platform = $2`
	_, err := t.db.Exec(query, organizationID, platform)
	return err
}
