package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

// fakeScheduleSource покрывает только методы, которые нужны планировщику
type fakeScheduleSource struct {
	repo.Content
	due      []*entity.Schedule
	statuses map[int][]string
}

func (f *fakeScheduleSource) GetDueSchedules(status string, limit int) ([]*entity.Schedule, error) {
	if status != entity.ScheduleStatusPending {
		return nil, nil
	}
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeScheduleSource) UpdateScheduleStatus(scheduleID int, status string, _ *entity.ScheduleStatusDetails) error {
	if f.statuses == nil {
		f.statuses = map[int][]string{}
	}
	f.statuses[scheduleID] = append(f.statuses[scheduleID], status)
	return nil
}

type erroringQueue struct {
	err error
}

func (q *erroringQueue) EnqueuePublishJob(context.Context, *entity.PublishJob) error { return q.err }

func (q *erroringQueue) SubscribePublishJobs(context.Context) (<-chan *entity.PublishJob, error) {
	return nil, errors.New("not implemented")
}

func TestSchedulerEnqueuesDueSchedules(t *testing.T) {
	body := "версия для ленты"
	source := &fakeScheduleSource{due: []*entity.Schedule{
		{
			ID:             2,
			ContentItemID:  1,
			OrganizationID: 10,
			Platform:       "FACEBOOK",
			Status:         entity.ScheduleStatusPending,
			MediaURLs:      []string{"https://cdn.example.com/a.jpg"},
			AdaptedBody:    &body,
		},
		{ID: 3, ContentItemID: 1, OrganizationID: 10, Platform: "LINKEDIN", Status: entity.ScheduleStatusPending, Attempts: 2},
	}}
	queue := newFakeQueue(0)

	scheduler := NewScheduler(source, queue, time.Minute)
	scheduler.enqueueDue(context.Background())

	require.Len(t, queue.enqueued, 2)
	first := queue.enqueued[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 2, first.ScheduleID)
	assert.Equal(t, 10, first.OrganizationID)
	assert.Equal(t, "FACEBOOK", first.Platform)
	assert.Equal(t, 1, first.Attempt)
	require.NotNil(t, first.AdaptedBody)
	assert.Equal(t, "версия для ленты", *first.AdaptedBody)
	assert.NotEqual(t, first.ID, queue.enqueued[1].ID)
	// номер попытки продолжает счётчик расписания: возвращённая после
	// ретрая запись идёт со следующим номером
	assert.Equal(t, 3, queue.enqueued[1].Attempt)

	// оба расписания переведены в processing до постановки в очередь
	assert.Equal(t, []string{entity.ScheduleStatusProcessing}, source.statuses[2])
	assert.Equal(t, []string{entity.ScheduleStatusProcessing}, source.statuses[3])
}

func TestSchedulerReturnsScheduleToPendingOnQueueError(t *testing.T) {
	source := &fakeScheduleSource{due: []*entity.Schedule{
		{ID: 2, ContentItemID: 1, OrganizationID: 10, Platform: "FACEBOOK", Status: entity.ScheduleStatusPending},
	}}
	queue := &erroringQueue{err: errors.New("broker unavailable")}

	scheduler := NewScheduler(source, queue, time.Minute)
	scheduler.enqueueDue(context.Background())

	assert.Equal(t, []string{entity.ScheduleStatusProcessing, entity.ScheduleStatusPending}, source.statuses[2])
}
