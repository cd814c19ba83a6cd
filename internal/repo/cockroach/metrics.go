package cockroach

import (
	"time"

	"github.com/jmoiron/sqlx"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

type MetricsDB struct {
	db *sqlx.DB
}

func NewMetrics(db *sqlx.DB) repo.Metrics {
	return &MetricsDB{db: db}
}

func (m *MetricsDB) AddPostMetrics(metrics *entity.PostMetrics) (int, error) {
	query := `
        INSERT INTO post_metrics (content_item_id, platform, version_id, views, likes, shares, comments, posted_at, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	var id int
	err := m.db.QueryRow(
		query,
		metrics.ContentItemID,
		metrics.Platform,
		metrics.VersionID,
		metrics.Views,
		metrics.Likes,
		metrics.Shares,
		metrics.Comments,
		metrics.PostedAt,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (m *MetricsDB) GetPostMetrics(contentItemID int, platform string) ([]*entity.PostMetrics, error) {
	query := `
        SELECT id, content_item_id, platform, version_id, views, likes, shares, comments, posted_at, recorded_at
        FROM post_metrics
        WHERE content_item_id = $1 AND ($2 = '' OR platform = $2)
        ORDER BY recorded_at DESC
    `
	var samples []*entity.PostMetrics
	err := m.db.Select(&samples, query, contentItemID, platform)
	if err != nil {
		return nil, err
	}
	return samples, nil
}
