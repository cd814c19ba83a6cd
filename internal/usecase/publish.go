package usecase

import (
	"context"
	"time"

	"socialflow-backend/internal/entity"
)

// PlatformPublisher публикует контент в одну социальную сеть.
// Возвращает айди созданного провайдером поста. Ошибки различаются по типу:
// *entity.ProviderError несёт транспортную ошибку с HTTP-статусом (нормализуется
// диспетчером в retry-after/статус), *entity.ProviderFailure несёт штатный отказ
// провайдера, остальные ошибки считаются терминальными и статуса не имеют.
type PlatformPublisher interface {
	// Platform возвращает платформу, которую обслуживает публикатор
	Platform() entity.Platform
	// Publish публикует контент и возвращает айди поста у провайдера
	Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error)
}

// PublishDispatcher реализует ядро публикации: идемпотентность, политику dry-run,
// токен, контент, выбор платформенного публикатора и нормализация ошибок.
type PublishDispatcher interface {
	// Publish выполняет одну попытку публикации. Никогда не возвращает ошибку:
	// любой исход сводится к PublishResult.
	Publish(ctx context.Context, request *entity.PublishRequest) *entity.PublishResult
	// RecordPublishOutcome переносит итог публикации в запись расписания.
	// Ошибки записи только логируются: сама публикация уже состоялась или нет.
	RecordPublishOutcome(scheduleID int, result *entity.PublishResult, jobID string, duration time.Duration)
}
