package entity

import "time"

// SocialToken хранит OAuth-подключение организации к платформе.
// Platform хранится в нижнем регистре.
type SocialToken struct {
	ID             int        `json:"id" db:"id"`
	OrganizationID int        `json:"organization_id" db:"organization_id"`
	Platform       string     `json:"platform" db:"platform"`
	AccessToken    string     `json:"-" db:"access_token"`
	RefreshToken   string     `json:"-" db:"refresh_token"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Expired сообщает, истёк ли access token с учётом небольшого запаса.
func (t *SocialToken) Expired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(time.Minute).After(*t.ExpiresAt)
}

type ConnectionInfo struct {
	Platform  string     `json:"platform"`
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
