package cockroach

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

type ContentDB struct {
	db *sqlx.DB
}

func NewContent(db *sqlx.DB) repo.Content {
	return &ContentDB{db: db}
}

func (c *ContentDB) AddContentItem(item *entity.ContentItem) (int, error) {
	query := `
        INSERT INTO content_item (organization_id, title, status, created_by_user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)
        RETURNING id
    `
	var id int
	err := c.db.QueryRow(query, item.OrganizationID, item.Title, item.Status, item.CreatedByID, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *ContentDB) GetContentItem(contentItemID int) (*entity.ContentItem, error) {
	item := &entity.ContentItem{}
	query := `
        SELECT id, organization_id, title, status, created_by_user_id, created_at, updated_at
        FROM content_item WHERE id = $1
    `
	err := c.db.Get(item, query, contentItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrContentNotFound
		}
		return nil, err
	}
	return item, nil
}

func (c *ContentDB) GetContentItems(filter *entity.ContentFilter) ([]*entity.ContentItem, error) {
	// фильтр собирается динамически, поэтому squirrel вместо статического SQL
	builder := sq.Select("id", "organization_id", "title", "status", "created_by_user_id", "created_at", "updated_at").
		From("content_item").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if filter.OrganizationID != 0 {
		builder = builder.Where(sq.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Before != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.Before})
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	builder = builder.Limit(uint64(limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var items []*entity.ContentItem
	err = c.db.Select(&items, query, args...)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *ContentDB) AddContentVersion(version *entity.ContentVersion) (int, error) {
	metadata, err := json.Marshal(version.Metadata)
	if err != nil {
		return 0, err
	}
	query := `
        INSERT INTO content_version (content_item_id, body, metadata, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int
	err = c.db.QueryRow(query, version.ContentItemID, version.Body, metadata, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *ContentDB) GetCurrentContentVersion(contentItemID int) (*entity.ContentVersion, error) {
	query := `
        SELECT id, content_item_id, body, metadata, created_at
        FROM content_version
        WHERE content_item_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `
	var version entity.ContentVersion
	var metadata []byte
	err := c.db.QueryRow(query, contentItemID).Scan(
		&version.ID,
		&version.ContentItemID,
		&version.Body,
		&metadata,
		&version.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrContentNotFound
		}
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &version.Metadata); err != nil {
			return nil, err
		}
	}
	return &version, nil
}

func (c *ContentDB) AddSchedule(schedule *entity.Schedule) (int, error) {
	query := `
        INSERT INTO schedule (content_item_id, organization_id, platform, status, scheduled_at, media_urls, adapted_body, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int
	err := c.db.QueryRow(
		query,
		schedule.ContentItemID,
		schedule.OrganizationID,
		schedule.Platform,
		schedule.Status,
		schedule.ScheduledAt,
		pq.Array(schedule.MediaURLs),
		schedule.AdaptedBody,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *ContentDB) GetSchedule(scheduleID int) (*entity.Schedule, error) {
	query := `
        SELECT id, content_item_id, organization_id, platform, status, COALESCE(provider_id, '') AS provider_id,
               scheduled_at, media_urls, adapted_body, attempts, COALESCE(error_message, '') AS error_message,
               created_at, published_at
        FROM schedule WHERE id = $1
    `
	schedule, err := scanSchedule(c.db.QueryRowx(query, scheduleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (c *ContentDB) GetContentSchedules(contentItemID int) ([]*entity.Schedule, error) {
	query := `
        SELECT id, content_item_id, organization_id, platform, status, COALESCE(provider_id, '') AS provider_id,
               scheduled_at, media_urls, adapted_body, attempts, COALESCE(error_message, '') AS error_message,
               created_at, published_at
        FROM schedule WHERE content_item_id = $1
        ORDER BY scheduled_at
    `
	rows, err := c.db.Queryx(query, contentItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

func (c *ContentDB) GetDueSchedules(status string, limit int) ([]*entity.Schedule, error) {
	query := `
        SELECT id, content_item_id, organization_id, platform, status, COALESCE(provider_id, '') AS provider_id,
               scheduled_at, media_urls, adapted_body, attempts, COALESCE(error_message, '') AS error_message,
               created_at, published_at
        FROM schedule
        WHERE status = $1 AND scheduled_at <= $2
        ORDER BY scheduled_at
        LIMIT $3
    `
	rows, err := c.db.Queryx(query, status, time.Now(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

func (c *ContentDB) UpdateScheduleStatus(scheduleID int, status string, details *entity.ScheduleStatusDetails) error {
	if details == nil {
		details = &entity.ScheduleStatusDetails{}
	}
	var publishedAt *time.Time
	if status == entity.ScheduleStatusPublished {
		now := time.Now()
		publishedAt = &now
	}
	query := `
        UPDATE schedule
        SET status = $2,
            provider_id = COALESCE(NULLIF($3, ''), provider_id),
            error_message = $4,
            last_job_id = NULLIF($5, ''),
            last_duration_ms = $6,
            last_status_code = $7,
            retry_after = $8,
            attempts = attempts + 1,
            published_at = COALESCE($9, published_at)
        WHERE id = $1
    `
	_, err := c.db.Exec(
		query,
		scheduleID,
		status,
		details.ProviderID,
		details.ErrorMessage,
		details.JobID,
		details.Duration.Milliseconds(),
		details.StatusCode,
		details.RetryAfter,
		publishedAt,
	)
	return err
}

func (c *ContentDB) RescheduleAt(scheduleID int, at time.Time) error {
	query := `UPDATE schedule SET status = $2, scheduled_at = $3 WHERE id = $1`
	result, err := c.db.Exec(query, scheduleID, entity.ScheduleStatusPending, at)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo.ErrScheduleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := row.Scan(
		&schedule.ID,
		&schedule.ContentItemID,
		&schedule.OrganizationID,
		&schedule.Platform,
		&schedule.Status,
		&schedule.ProviderID,
		&schedule.ScheduledAt,
		pq.Array(&schedule.MediaURLs),
		&schedule.AdaptedBody,
		&schedule.Attempts,
		&schedule.ErrorMessage,
		&schedule.CreatedAt,
		&schedule.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func scanSchedules(rows *sqlx.Rows) ([]*entity.Schedule, error) {
	var schedules []*entity.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}
