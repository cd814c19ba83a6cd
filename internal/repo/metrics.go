package repo

import "socialflow-backend/internal/entity"

type Metrics interface {
	// AddPostMetrics сохраняет сэмпл метрик по опубликованному посту
	AddPostMetrics(metrics *entity.PostMetrics) (int, error)
	// GetPostMetrics возвращает сэмплы метрик по элементу контента (platform опционален)
	GetPostMetrics(contentItemID int, platform string) ([]*entity.PostMetrics, error)
}
