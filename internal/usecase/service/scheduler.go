package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

const dueBatchSize = 5

// Scheduler следит за наступившими записями расписания и превращает их
// в задания очереди. Сама публикация выполняется воркером очереди.
type Scheduler struct {
	contentRepo repo.Content
	queue       repo.PublishQueue
	interval    time.Duration
}

func NewScheduler(contentRepo repo.Content, queue repo.PublishQueue, interval time.Duration) *Scheduler {
	return &Scheduler{
		contentRepo: contentRepo,
		queue:       queue,
		interval:    interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueDue(ctx)
		}
	}
}

func (s *Scheduler) enqueueDue(ctx context.Context) {
	schedules, err := s.contentRepo.GetDueSchedules(entity.ScheduleStatusPending, dueBatchSize)
	if err != nil {
		log.Errorf("error getting due schedules: %v", err)
		return
	}
	for _, schedule := range schedules {
		// сначала переводим в processing: повторный тик не должен
		// поставить то же расписание в очередь дважды
		err := s.contentRepo.UpdateScheduleStatus(schedule.ID, entity.ScheduleStatusProcessing, nil)
		if err != nil {
			log.Errorf("error marking schedule %d as processing: %v", schedule.ID, err)
			continue
		}
		job := &entity.PublishJob{
			ID:             uuid.New().String(),
			ScheduleID:     schedule.ID,
			ContentItemID:  schedule.ContentItemID,
			OrganizationID: schedule.OrganizationID,
			Platform:       schedule.Platform,
			MediaURLs:      schedule.MediaURLs,
			AdaptedBody:    schedule.AdaptedBody,
			Attempt:        schedule.Attempts + 1,
			CreatedAt:      time.Now(),
		}
		if err := s.queue.EnqueuePublishJob(ctx, job); err != nil {
			log.Errorf("error enqueueing publish job for schedule %d: %v", schedule.ID, err)
			// возвращаем в pending, чтобы расписание не зависло в processing
			if err := s.contentRepo.UpdateScheduleStatus(schedule.ID, entity.ScheduleStatusPending, nil); err != nil {
				log.Errorf("error returning schedule %d to pending: %v", schedule.ID, err)
			}
			continue
		}
		log.Infof("enqueued publish job %s for schedule %d (%s)", job.ID, schedule.ID, schedule.Platform)
	}
}
