package repo

import (
	"context"

	"socialflow-backend/internal/entity"
)

type PublishQueue interface {
	// EnqueuePublishJob кладёт задание на публикацию в очередь
	EnqueuePublishJob(ctx context.Context, job *entity.PublishJob) error
	// SubscribePublishJobs возвращает канал заданий; канал закрывается при отмене контекста
	SubscribePublishJobs(ctx context.Context) (<-chan *entity.PublishJob, error)
}
