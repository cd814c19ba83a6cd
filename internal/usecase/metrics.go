package usecase

import "socialflow-backend/internal/entity"

type Metrics interface {
	// RecordPostMetrics сохраняет сэмпл метрик после успешной публикации
	RecordPostMetrics(metrics *entity.PostMetrics) error
	// GetContentMetrics возвращает метрики по элементу контента
	GetContentMetrics(request *entity.ContentMetricsRequest) ([]*entity.PostMetrics, error)
}
