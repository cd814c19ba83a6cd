package entity

import (
	"fmt"
	"strings"
	"time"
)

// Platform идентификаторы хранятся в верхнем регистре, на входе регистр не важен.
type Platform string

const (
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformLinkedIn  Platform = "LINKEDIN"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformGBP       Platform = "GBP"
)

var knownPlatforms = map[Platform]struct{}{
	PlatformFacebook:  {},
	PlatformInstagram: {},
	PlatformLinkedIn:  {},
	PlatformYouTube:   {},
	PlatformGBP:       {},
}

// Platforms возвращает все поддерживаемые платформы в фиксированном порядке.
func Platforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformYouTube, PlatformGBP}
}

// NormalizePlatform приводит строку платформы к каноническому верхнему регистру.
func NormalizePlatform(s string) Platform {
	return Platform(strings.ToUpper(strings.TrimSpace(s)))
}

// ParsePlatform возвращает каноническую платформу или ошибку для неизвестных значений.
func ParsePlatform(s string) (Platform, error) {
	p := NormalizePlatform(s)
	if _, ok := knownPlatforms[p]; !ok {
		return p, fmt.Errorf("unsupported platform: %s", p)
	}
	return p, nil
}

// Lower возвращает имя платформы в нижнем регистре (так платформы хранятся в токенах).
func (p Platform) Lower() string {
	return strings.ToLower(string(p))
}

type PublishRequest struct {
	ContentItemID  int    `json:"content_item_id"`
	Platform       string `json:"platform"`
	// ScheduleID опционален; при наличии включает проверку идемпотентности
	ScheduleID int `json:"schedule_id,omitempty"`
	// OrganizationID опционален; при наличии включает политику dry-run и скоупинг токена
	OrganizationID int             `json:"organization_id,omitempty"`
	AdaptedContent *PublishContent `json:"adapted_content,omitempty"`
	MediaURLs      []string        `json:"media_urls,omitempty"`
}

// PublishResult сводит любой исход публикации к единому виду для всех платформ.
// Инвариант: либо Success=true и ProviderID заполнен, либо Success=false и Error заполнен.
// RetryAfter выставляется только для rate limit.
type PublishResult struct {
	Success    bool   `json:"success"`
	ProviderID string `json:"provider_id,omitempty"`
	Error      string `json:"error,omitempty"`
	// RetryAfter держит секунды до повторной попытки; отсутствие значения должно оставаться отсутствием
	RetryAfter *int `json:"retry_after,omitempty"`
	StatusCode int  `json:"status_code,omitempty"`
}

// PublishContent несёт тело и метаданные, которые уходят на платформу.
type PublishContent struct {
	Body     string          `json:"body"`
	Metadata VersionMetadata `json:"metadata"`
}

// PlatformPublishRequest собирает вход платформенного публикатора, токен уже разрешён.
type PlatformPublishRequest struct {
	AccessToken   string
	Content       *PublishContent
	MediaURLs     []string
	ContentItemID int
}

const (
	ScheduleStatusPending    = "pending"
	ScheduleStatusProcessing = "processing"
	ScheduleStatusPublished  = "published"
	ScheduleStatusFailed     = "failed"
)

type Schedule struct {
	ID             int        `json:"id" db:"id"`
	ContentItemID  int        `json:"content_item_id" db:"content_item_id"`
	OrganizationID int        `json:"organization_id" db:"organization_id"`
	Platform       string     `json:"platform" db:"platform"`
	Status         string     `json:"status" db:"status"`
	ProviderID     string     `json:"provider_id" db:"provider_id"`
	ScheduledAt    time.Time  `json:"scheduled_at" db:"scheduled_at"`
	MediaURLs      []string   `json:"media_urls" db:"media_urls"`
	AdaptedBody    *string    `json:"adapted_body,omitempty" db:"adapted_body"`
	Attempts       int        `json:"attempts" db:"attempts"`
	ErrorMessage   string     `json:"error_message" db:"error_message"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	PublishedAt    *time.Time `json:"published_at,omitempty" db:"published_at"`
}

// ScheduleStatusDetails переносит итог публикации в запись расписания.
type ScheduleStatusDetails struct {
	ProviderID   string
	ErrorMessage string
	JobID        string
	Duration     time.Duration
	StatusCode   int
	RetryAfter   *int
}

// AutopostSettings хранит пер-организационную политику автопостинга.
// nil-поле означает «не задано», действует значение по умолчанию из окружения.
type AutopostSettings struct {
	OrganizationID  int   `json:"organization_id" db:"organization_id"`
	DryRun          *bool `json:"dry_run,omitempty" db:"dry_run"`
	AutopostEnabled *bool `json:"autopost_enabled,omitempty" db:"autopost_enabled"`
}
