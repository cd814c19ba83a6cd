package entity

import (
	"errors"
	"time"
)

type ContentItem struct {
	ID             int       `json:"id" db:"id"`
	OrganizationID int       `json:"organization_id" db:"organization_id"`
	Title          string    `json:"title" db:"title"`
	Status         string    `json:"status" db:"status"`
	CreatedByID    int       `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// VersionMetadata несёт платформенные метаданные версии контента.
// MediaType управляет выбором Instagram-подтипа (photo по умолчанию).
type VersionMetadata struct {
	MediaType   string `json:"media_type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	// MusicRef опционально ссылается на аудио для Instagram reels
	MusicRef string `json:"music_ref,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

type ContentVersion struct {
	ID            int             `json:"id" db:"id"`
	ContentItemID int             `json:"content_item_id" db:"content_item_id"`
	Body          string          `json:"body" db:"body"`
	Metadata      VersionMetadata `json:"metadata" db:"metadata"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type AddContentRequest struct {
	UserID         int
	OrganizationID int             `json:"organization_id"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Metadata       VersionMetadata `json:"metadata"`
}

func (r *AddContentRequest) IsValid() error {
	if r.OrganizationID == 0 {
		return errors.New("organization_id is required")
	}
	if r.Title == "" && r.Body == "" {
		return errors.New("title and body are empty")
	}
	return nil
}

type EditContentRequest struct {
	UserID        int
	ContentItemID int             `json:"content_item_id"`
	Body          string          `json:"body"`
	Metadata      VersionMetadata `json:"metadata"`
}

type GetContentRequest struct {
	UserID        int
	ContentItemID int `json:"content_item_id"`
}

// ContentFilter задаёт параметры выборки контента; пустые поля не участвуют в фильтре.
type ContentFilter struct {
	OrganizationID int        `query:"organization_id"`
	Status         string     `query:"status"`
	Before         *time.Time `query:"before"`
	Limit          int        `query:"limit"`
}

type AddScheduleRequest struct {
	UserID        int
	ContentItemID int    `json:"content_item_id"`
	Platform      string `json:"platform"`
	// ScheduledAt указывается в UNIX timestamp UTC +0
	ScheduledAt int64    `json:"scheduled_at"`
	MediaURLs   []string `json:"media_urls,omitempty"`
	AdaptedBody *string  `json:"adapted_body,omitempty"`
}

func (r *AddScheduleRequest) IsValid() error {
	if r.ContentItemID == 0 {
		return errors.New("content_item_id is required")
	}
	if _, err := ParsePlatform(r.Platform); err != nil {
		return err
	}
	if r.ScheduledAt < time.Now().Unix() {
		return errors.New("scheduled_at must be in the future")
	}
	return nil
}
