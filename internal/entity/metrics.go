package entity

import "time"

// PostMetrics хранит сэмпл метрик вовлечённости по опубликованному посту.
type PostMetrics struct {
	ID            int       `json:"id" db:"id"`
	ContentItemID int       `json:"content_item_id" db:"content_item_id"`
	Platform      string    `json:"platform" db:"platform"`
	VersionID     int       `json:"version_id" db:"version_id"`
	Views         int       `json:"views" db:"views"`
	Likes         int       `json:"likes" db:"likes"`
	Shares        int       `json:"shares" db:"shares"`
	Comments      int       `json:"comments" db:"comments"`
	PostedAt      time.Time `json:"posted_at" db:"posted_at"`
	RecordedAt    time.Time `json:"recorded_at" db:"recorded_at"`
}

type ContentMetricsRequest struct {
	UserID        int
	ContentItemID int    `query:"content_item_id"`
	Platform      string `query:"platform"`
}
