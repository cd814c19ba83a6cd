package service

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

const (
	defaultMaxAttempts    = 5
	defaultInitialBackoff = time.Minute
)

// PublishWorker обрабатывает задания очереди: одна публикация на задание.
// Ретраи целиком лежат на воркере: диспетчер внутри себя ничего не повторяет,
// он лишь отдаёт retry-after/статус в результате. Backoff при этом не держится
// в памяти воркера: расписание возвращается в pending с новым scheduled_at,
// и планировщик сам поставит его в очередь, когда время придёт. Рестарт
// воркера ретрай не теряет, и задержанное задание не задерживает остальные.
type PublishWorker struct {
	queue          repo.PublishQueue
	contentRepo    repo.Content
	dispatcher     usecase.PublishDispatcher
	workerID       string
	maxAttempts    int
	initialBackoff time.Duration
}

func NewPublishWorker(queue repo.PublishQueue, contentRepo repo.Content, dispatcher usecase.PublishDispatcher, workerID string) *PublishWorker {
	return &PublishWorker{
		queue:          queue,
		contentRepo:    contentRepo,
		dispatcher:     dispatcher,
		workerID:       workerID,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
	}
}

func (w *PublishWorker) Start(ctx context.Context) error {
	jobs, err := w.queue.SubscribePublishJobs(ctx)
	if err != nil {
		return err
	}
	log.Infof("publish worker %s started", w.workerID)
	for job := range jobs {
		w.process(ctx, job)
	}
	log.Infof("publish worker %s stopped", w.workerID)
	return nil
}

func (w *PublishWorker) process(ctx context.Context, job *entity.PublishJob) {
	start := time.Now()
	result := w.dispatcher.Publish(ctx, job.ToPublishRequest())
	duration := time.Since(start)
	w.dispatcher.RecordPublishOutcome(job.ScheduleID, result, job.ID, duration)

	if result.Success {
		log.Infof("job %s: published schedule %d as %s in %s", job.ID, job.ScheduleID, result.ProviderID, duration)
		return
	}

	log.Errorf("job %s: publish failed for schedule %d: %s (status %d)", job.ID, job.ScheduleID, result.Error, result.StatusCode)

	if !w.Retryable(result) || job.Attempt >= w.maxAttempts {
		return
	}

	// итог попытки уже записан; возвращаем расписание в pending со сдвинутым
	// scheduled_at, дальше его подхватит планировщик
	nextAt := time.Now().Add(w.Backoff(result, job.Attempt))
	if err := w.contentRepo.RescheduleAt(job.ScheduleID, nextAt); err != nil {
		log.Errorf("job %s: failed to reschedule %d for retry: %v", job.ID, job.ScheduleID, err)
		return
	}
	log.Infof("job %s: schedule %d will retry at %s (attempt %d)", job.ID, job.ScheduleID, nextAt, job.Attempt+1)
}

// Retryable решает, имеет ли смысл повторная попытка. Rate limit и протухший
// токен повторяемы (токен обновится при следующем разрешении), серверные
// ошибки провайдера тоже. Терминальные отказы и ошибки 4xx не повторяются.
func (w *PublishWorker) Retryable(result *entity.PublishResult) bool {
	if result.RetryAfter != nil {
		return true
	}
	switch {
	case result.StatusCode == http.StatusTooManyRequests:
		return true
	case result.StatusCode == http.StatusUnauthorized:
		return true
	case result.StatusCode >= http.StatusInternalServerError:
		return true
	}
	return false
}

// Backoff возвращает задержку перед повтором: retry-after провайдера задаёт
// минимальный backoff, иначе берётся экспонента от номера попытки.
func (w *PublishWorker) Backoff(result *entity.PublishResult, attempt int) time.Duration {
	backoff := w.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if result.RetryAfter != nil {
		hinted := time.Duration(*result.RetryAfter) * time.Second
		if hinted > backoff {
			return hinted
		}
	}
	return backoff
}
