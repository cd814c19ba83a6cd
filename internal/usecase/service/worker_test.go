package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialflow-backend/internal/entity"
)

type fakeQueue struct {
	jobs     chan *entity.PublishJob
	enqueued []*entity.PublishJob
}

func newFakeQueue(buffer int) *fakeQueue {
	return &fakeQueue{jobs: make(chan *entity.PublishJob, buffer)}
}

func (q *fakeQueue) EnqueuePublishJob(_ context.Context, job *entity.PublishJob) error {
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *fakeQueue) SubscribePublishJobs(_ context.Context) (<-chan *entity.PublishJob, error) {
	return q.jobs, nil
}

type fakeDispatcher struct {
	results  []*entity.PublishResult
	requests []*entity.PublishRequest
	outcomes []string
}

func (d *fakeDispatcher) Publish(_ context.Context, request *entity.PublishRequest) *entity.PublishResult {
	d.requests = append(d.requests, request)
	if len(d.results) == 0 {
		return &entity.PublishResult{Success: true, ProviderID: "fb_123"}
	}
	result := d.results[0]
	if len(d.results) > 1 {
		d.results = d.results[1:]
	}
	return result
}

func (d *fakeDispatcher) RecordPublishOutcome(_ int, result *entity.PublishResult, _ string, _ time.Duration) {
	if result.Success {
		d.outcomes = append(d.outcomes, "published")
	} else {
		d.outcomes = append(d.outcomes, "failed")
	}
}

func failingDispatcher(result *entity.PublishResult) *fakeDispatcher {
	return &fakeDispatcher{results: []*entity.PublishResult{result}}
}

func TestPublishWorkerRetryable(t *testing.T) {
	worker := NewPublishWorker(newFakeQueue(0), newFakeContentRepo(), &fakeDispatcher{}, "w1")

	cases := []struct {
		name      string
		result    *entity.PublishResult
		retryable bool
	}{
		{"retry after hint", &entity.PublishResult{Error: "Rate limited", RetryAfter: intPtr(30)}, true},
		{"rate limited by status", &entity.PublishResult{Error: "Rate limited", StatusCode: 429}, true},
		{"token expired", &entity.PublishResult{Error: "Token expired", StatusCode: 401}, true},
		{"server error", &entity.PublishResult{Error: "Internal error", StatusCode: 500}, true},
		{"bad gateway", &entity.PublishResult{Error: "Bad gateway", StatusCode: 502}, true},
		{"provider refusal", &entity.PublishResult{Error: "Invalid media", StatusCode: 400}, false},
		{"terminal failure", &entity.PublishResult{Error: "No valid token available"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, worker.Retryable(tc.result))
		})
	}
}

func TestPublishWorkerBackoff(t *testing.T) {
	worker := NewPublishWorker(newFakeQueue(0), newFakeContentRepo(), &fakeDispatcher{}, "w1")

	t.Run("exponential growth", func(t *testing.T) {
		result := &entity.PublishResult{StatusCode: 500}
		assert.Equal(t, time.Minute, worker.Backoff(result, 1))
		assert.Equal(t, 2*time.Minute, worker.Backoff(result, 2))
		assert.Equal(t, 4*time.Minute, worker.Backoff(result, 3))
	})

	t.Run("retry after wins when larger", func(t *testing.T) {
		result := &entity.PublishResult{StatusCode: 429, RetryAfter: intPtr(600)}
		assert.Equal(t, 10*time.Minute, worker.Backoff(result, 1))
	})

	t.Run("retry after ignored when exponent is larger", func(t *testing.T) {
		result := &entity.PublishResult{StatusCode: 429, RetryAfter: intPtr(5)}
		assert.Equal(t, 2*time.Minute, worker.Backoff(result, 2))
	})
}

func TestPublishWorkerProcessSuccess(t *testing.T) {
	queue := newFakeQueue(1)
	contentRepo := newFakeContentRepo()
	dispatcher := &fakeDispatcher{}
	worker := NewPublishWorker(queue, contentRepo, dispatcher, "w1")

	body := "адаптированный текст"
	queue.jobs <- &entity.PublishJob{
		ID:             "job_1",
		ScheduleID:     2,
		ContentItemID:  1,
		OrganizationID: 10,
		Platform:       "FACEBOOK",
		MediaURLs:      []string{"https://cdn.example.com/a.jpg"},
		AdaptedBody:    &body,
		Attempt:        1,
	}
	close(queue.jobs)

	require.NoError(t, worker.Start(context.Background()))

	require.Len(t, dispatcher.requests, 1)
	request := dispatcher.requests[0]
	assert.Equal(t, 2, request.ScheduleID)
	assert.Equal(t, 10, request.OrganizationID)
	assert.Equal(t, "FACEBOOK", request.Platform)
	require.NotNil(t, request.AdaptedContent)
	assert.Equal(t, "адаптированный текст", request.AdaptedContent.Body)

	assert.Equal(t, []string{"published"}, dispatcher.outcomes)
	assert.Empty(t, contentRepo.rescheduled)
}

func TestPublishWorkerReschedulesRetryableFailure(t *testing.T) {
	queue := newFakeQueue(1)
	contentRepo := newFakeContentRepo()
	dispatcher := failingDispatcher(&entity.PublishResult{
		Error:      "Rate limited",
		StatusCode: 429,
		RetryAfter: intPtr(300),
	})
	worker := NewPublishWorker(queue, contentRepo, dispatcher, "w1")

	queue.jobs <- &entity.PublishJob{ID: "job_1", ScheduleID: 2, Platform: "FACEBOOK", Attempt: 1}
	close(queue.jobs)

	require.NoError(t, worker.Start(context.Background()))

	// итог попытки записан, а ретрай живёт в строке расписания: воркер может
	// умереть сразу после Start, планировщик всё равно подберёт запись
	assert.Equal(t, []string{"failed"}, dispatcher.outcomes)
	require.Contains(t, contentRepo.rescheduled, 2)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), contentRepo.rescheduled[2], 5*time.Second)
	assert.Empty(t, queue.enqueued)
}

func TestPublishWorkerBackoffDoesNotBlockQueue(t *testing.T) {
	queue := newFakeQueue(2)
	contentRepo := newFakeContentRepo()
	dispatcher := &fakeDispatcher{results: []*entity.PublishResult{
		{Error: "Rate limited", StatusCode: 429, RetryAfter: intPtr(600)},
		{Success: true, ProviderID: "li_9"},
	}}
	worker := NewPublishWorker(queue, contentRepo, dispatcher, "w1")

	queue.jobs <- &entity.PublishJob{ID: "job_1", ScheduleID: 2, Platform: "FACEBOOK", Attempt: 1}
	queue.jobs <- &entity.PublishJob{ID: "job_2", ScheduleID: 3, Platform: "LINKEDIN", Attempt: 1}
	close(queue.jobs)

	started := time.Now()
	require.NoError(t, worker.Start(context.Background()))

	// десятиминутный backoff первого задания не задерживает второе
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Equal(t, []string{"failed", "published"}, dispatcher.outcomes)
	require.Contains(t, contentRepo.rescheduled, 2)
	assert.NotContains(t, contentRepo.rescheduled, 3)
}

func TestPublishWorkerDropsAfterMaxAttempts(t *testing.T) {
	queue := newFakeQueue(1)
	contentRepo := newFakeContentRepo()
	dispatcher := failingDispatcher(&entity.PublishResult{Error: "Internal error", StatusCode: 500})
	worker := NewPublishWorker(queue, contentRepo, dispatcher, "w1")

	queue.jobs <- &entity.PublishJob{ID: "job_1", ScheduleID: 2, Platform: "FACEBOOK", Attempt: 5}
	close(queue.jobs)

	require.NoError(t, worker.Start(context.Background()))
	assert.Empty(t, contentRepo.rescheduled)
}

func TestPublishWorkerDoesNotRetryTerminalFailure(t *testing.T) {
	queue := newFakeQueue(1)
	contentRepo := newFakeContentRepo()
	dispatcher := failingDispatcher(&entity.PublishResult{Error: "Content not found"})
	worker := NewPublishWorker(queue, contentRepo, dispatcher, "w1")

	queue.jobs <- &entity.PublishJob{ID: "job_1", ScheduleID: 2, Platform: "FACEBOOK", Attempt: 1}
	close(queue.jobs)

	require.NoError(t, worker.Start(context.Background()))
	assert.Equal(t, []string{"failed"}, dispatcher.outcomes)
	assert.Empty(t, contentRepo.rescheduled)
}
