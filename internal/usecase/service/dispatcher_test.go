package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type fakeContentRepo struct {
	items       map[int]*entity.ContentItem
	versions    map[int]*entity.ContentVersion
	schedules   map[int][]*entity.Schedule
	updates     []string
	rescheduled map[int]time.Time
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		items:       map[int]*entity.ContentItem{},
		versions:    map[int]*entity.ContentVersion{},
		schedules:   map[int][]*entity.Schedule{},
		rescheduled: map[int]time.Time{},
	}
}

func (f *fakeContentRepo) AddContentItem(item *entity.ContentItem) (int, error) {
	id := len(f.items) + 1
	item.ID = id
	f.items[id] = item
	return id, nil
}

func (f *fakeContentRepo) GetContentItem(contentItemID int) (*entity.ContentItem, error) {
	item, ok := f.items[contentItemID]
	if !ok {
		return nil, repo.ErrContentNotFound
	}
	return item, nil
}

func (f *fakeContentRepo) GetContentItems(_ *entity.ContentFilter) ([]*entity.ContentItem, error) {
	return nil, nil
}

func (f *fakeContentRepo) AddContentVersion(version *entity.ContentVersion) (int, error) {
	f.versions[version.ContentItemID] = version
	return version.ID, nil
}

func (f *fakeContentRepo) GetCurrentContentVersion(contentItemID int) (*entity.ContentVersion, error) {
	version, ok := f.versions[contentItemID]
	if !ok {
		return nil, repo.ErrContentNotFound
	}
	return version, nil
}

func (f *fakeContentRepo) AddSchedule(schedule *entity.Schedule) (int, error) {
	f.schedules[schedule.ContentItemID] = append(f.schedules[schedule.ContentItemID], schedule)
	return schedule.ID, nil
}

func (f *fakeContentRepo) GetSchedule(scheduleID int) (*entity.Schedule, error) {
	for _, schedules := range f.schedules {
		for _, schedule := range schedules {
			if schedule.ID == scheduleID {
				return schedule, nil
			}
		}
	}
	return nil, repo.ErrScheduleNotFound
}

func (f *fakeContentRepo) GetContentSchedules(contentItemID int) ([]*entity.Schedule, error) {
	return f.schedules[contentItemID], nil
}

func (f *fakeContentRepo) GetDueSchedules(string, int) ([]*entity.Schedule, error) {
	return nil, nil
}

func (f *fakeContentRepo) UpdateScheduleStatus(scheduleID int, status string, _ *entity.ScheduleStatusDetails) error {
	f.updates = append(f.updates, status)
	return nil
}

func (f *fakeContentRepo) RescheduleAt(scheduleID int, at time.Time) error {
	f.rescheduled[scheduleID] = at
	return nil
}

type fakeOrgRepo struct {
	settings *entity.AutopostSettings
	err      error
}

func (f *fakeOrgRepo) AddOrganization(*entity.Organization) (int, error)       { return 0, nil }
func (f *fakeOrgRepo) GetOrganization(int) (*entity.Organization, error)       { return nil, nil }
func (f *fakeOrgRepo) GetOrganizationUserRoles(int, int) ([]string, error)     { return nil, nil }
func (f *fakeOrgRepo) SetOrganizationUserRoles(int, int, []string) error       { return nil }
func (f *fakeOrgRepo) UpdateAutopostSettings(*entity.AutopostSettings) error   { return nil }
func (f *fakeOrgRepo) GetAutopostSettings(int) (*entity.AutopostSettings, error) {
	return f.settings, f.err
}

type fakeMetricsRepo struct {
	recorded []*entity.PostMetrics
}

func (f *fakeMetricsRepo) AddPostMetrics(metrics *entity.PostMetrics) (int, error) {
	f.recorded = append(f.recorded, metrics)
	return len(f.recorded), nil
}

func (f *fakeMetricsRepo) GetPostMetrics(int, string) ([]*entity.PostMetrics, error) {
	return nil, nil
}

type fakeTokenProvider struct {
	token string
	err   error
	calls int
}

func (f *fakeTokenProvider) GetValidAccessToken(context.Context, int, string) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakePublisher struct {
	platform   entity.Platform
	providerID string
	err        error
	calls      int
}

func (f *fakePublisher) Platform() entity.Platform { return f.platform }

func (f *fakePublisher) Publish(context.Context, *entity.PlatformPublishRequest) (string, error) {
	f.calls++
	return f.providerID, f.err
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

type dispatcherFixture struct {
	contentRepo *fakeContentRepo
	orgRepo     *fakeOrgRepo
	metricsRepo *fakeMetricsRepo
	tokens      *fakeTokenProvider
	publisher   *fakePublisher
	dispatcher  usecase.PublishDispatcher
}

func newDispatcherFixture(cfg DispatcherConfig, publisher *fakePublisher) *dispatcherFixture {
	contentRepo := newFakeContentRepo()
	contentRepo.items[1] = &entity.ContentItem{ID: 1, OrganizationID: 10, Title: "запуск"}
	contentRepo.versions[1] = &entity.ContentVersion{ID: 5, ContentItemID: 1, Body: "Привет, мир"}
	orgRepo := &fakeOrgRepo{}
	metricsRepo := &fakeMetricsRepo{}
	tokens := &fakeTokenProvider{token: "valid-token"}
	dispatcher := NewPublishDispatcher(cfg, contentRepo, orgRepo, metricsRepo, tokens, publisher)
	return &dispatcherFixture{
		contentRepo: contentRepo,
		orgRepo:     orgRepo,
		metricsRepo: metricsRepo,
		tokens:      tokens,
		publisher:   publisher,
		dispatcher:  dispatcher,
	}
}

func TestPublishDispatcher_Idempotency(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook, providerID: "fb_new"}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)
	f.contentRepo.schedules[1] = []*entity.Schedule{
		{ID: 2, ContentItemID: 1, Status: entity.ScheduleStatusPublished, ProviderID: "already_1"},
	}

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		ScheduleID:     2,
		OrganizationID: 10,
	})

	require.True(t, result.Success)
	assert.Equal(t, "already_1", result.ProviderID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Zero(t, publisher.calls, "идемпотентный повтор не должен трогать провайдера")
	assert.Zero(t, f.tokens.calls)
}

func TestPublishDispatcher_DryRunGate(t *testing.T) {
	for _, platform := range entity.Platforms() {
		t.Run(string(platform), func(t *testing.T) {
			publisher := &fakePublisher{platform: platform, providerID: "real_1"}
			f := newDispatcherFixture(DispatcherConfig{GlobalDryRun: true}, publisher)

			result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
				ContentItemID:  1,
				Platform:       string(platform),
				OrganizationID: 10,
				MediaURLs:      []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
			})

			require.True(t, result.Success)
			assert.Equal(t, "dry_run_"+platform.Lower(), result.ProviderID)
			assert.Equal(t, http.StatusOK, result.StatusCode)
			assert.Zero(t, publisher.calls)
		})
	}
}

func TestPublishDispatcher_DryRunStillResolvesTokenAndContent(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		publisher := &fakePublisher{platform: entity.PlatformFacebook}
		f := newDispatcherFixture(DispatcherConfig{GlobalDryRun: true}, publisher)
		f.tokens.err = usecase.ErrNoValidToken

		result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
			ContentItemID:  1,
			Platform:       "FACEBOOK",
			OrganizationID: 10,
		})

		require.False(t, result.Success)
		assert.Equal(t, "No valid token available", result.Error)
		assert.Zero(t, result.StatusCode)
	})

	t.Run("no content", func(t *testing.T) {
		publisher := &fakePublisher{platform: entity.PlatformFacebook}
		f := newDispatcherFixture(DispatcherConfig{GlobalDryRun: true}, publisher)
		delete(f.contentRepo.items, 1)

		result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
			ContentItemID:  1,
			Platform:       "FACEBOOK",
			OrganizationID: 10,
		})

		require.False(t, result.Success)
		assert.Equal(t, "Content not found", result.Error)
	})
}

func TestPublishDispatcher_AutopostDisabledForcesDryRun(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook, providerID: "real_1"}
	f := newDispatcherFixture(DispatcherConfig{GlobalDryRun: false}, publisher)
	f.orgRepo.settings = &entity.AutopostSettings{
		OrganizationID:  10,
		DryRun:          boolPtr(false),
		AutopostEnabled: boolPtr(false),
	}

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.True(t, result.Success)
	assert.Equal(t, "dry_run_facebook", result.ProviderID)
	assert.Zero(t, publisher.calls)
}

func TestPublishDispatcher_SettingsErrorFallsBackToDefault(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook, providerID: "fb_123"}
	f := newDispatcherFixture(DispatcherConfig{GlobalDryRun: false}, publisher)
	f.orgRepo.err = errors.New("db down")

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.True(t, result.Success)
	assert.Equal(t, "fb_123", result.ProviderID)
	assert.Equal(t, 1, publisher.calls)
}

func TestPublishDispatcher_RateLimitRoundTrip(t *testing.T) {
	publisher := &fakePublisher{
		platform: entity.PlatformFacebook,
		err: &entity.ProviderError{
			StatusCode: http.StatusTooManyRequests,
			RetryAfter: intPtr(7),
			Message:    "slow down",
		},
	}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.False(t, result.Success)
	assert.Equal(t, "Rate limited", result.Error)
	require.NotNil(t, result.RetryAfter)
	assert.Equal(t, 7, *result.RetryAfter)
	assert.Equal(t, http.StatusTooManyRequests, result.StatusCode)
}

func TestPublishDispatcher_TokenExpired(t *testing.T) {
	publisher := &fakePublisher{
		platform: entity.PlatformFacebook,
		err:      &entity.ProviderError{StatusCode: http.StatusUnauthorized, Message: "bad token"},
	}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.False(t, result.Success)
	assert.Equal(t, "Token expired", result.Error)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
	assert.Nil(t, result.RetryAfter)
}

func TestPublishDispatcher_ProviderFailureIsBadRequest(t *testing.T) {
	publisher := &fakePublisher{
		platform: entity.PlatformFacebook,
		err:      &entity.ProviderFailure{Message: "post rejected"},
	}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.False(t, result.Success)
	assert.Equal(t, "post rejected", result.Error)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
}

func TestPublishDispatcher_PlainErrorHasNoStatus(t *testing.T) {
	publisher := &fakePublisher{
		platform: entity.PlatformFacebook,
		err:      errors.New("No Facebook pages found for this account"),
	}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.False(t, result.Success)
	assert.Equal(t, "No Facebook pages found for this account", result.Error)
	assert.Zero(t, result.StatusCode)
	assert.Nil(t, result.RetryAfter)
}

func TestPublishDispatcher_UnsupportedPlatform(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "TIKTOK",
		OrganizationID: 10,
	})

	require.False(t, result.Success)
	assert.Equal(t, "Unsupported platform: TIKTOK", result.Error)
	assert.Zero(t, publisher.calls)
	// токен и контент разрешаются до выбора платформы - это осознанный порядок
	assert.Equal(t, 1, f.tokens.calls)
}

func TestPublishDispatcher_HappyPath(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook, providerID: "fb_123"}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
	})

	require.True(t, result.Success)
	assert.Equal(t, "fb_123", result.ProviderID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 1, publisher.calls)

	// после успешной публикации пишется сэмпл метрик
	require.Len(t, f.metricsRepo.recorded, 1)
	assert.Equal(t, 1, f.metricsRepo.recorded[0].ContentItemID)
	assert.Equal(t, "facebook", f.metricsRepo.recorded[0].Platform)
	assert.Equal(t, 5, f.metricsRepo.recorded[0].VersionID)
}

func TestPublishDispatcher_CaseInsensitivePlatform(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook, providerID: "fb_123"}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	result := f.dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "facebook",
		OrganizationID: 10,
	})

	require.True(t, result.Success)
	assert.Equal(t, "fb_123", result.ProviderID)
}

func TestPublishDispatcher_AdaptedContentOverride(t *testing.T) {
	var captured *entity.PlatformPublishRequest
	publisher := &capturingPublisher{platform: entity.PlatformFacebook, providerID: "fb_123", captured: &captured}
	contentRepo := newFakeContentRepo()
	contentRepo.items[1] = &entity.ContentItem{ID: 1, OrganizationID: 10}
	contentRepo.versions[1] = &entity.ContentVersion{ID: 5, ContentItemID: 1, Body: "оригинал"}
	dispatcher := NewPublishDispatcher(DispatcherConfig{}, contentRepo, &fakeOrgRepo{}, &fakeMetricsRepo{}, &fakeTokenProvider{token: "t"}, publisher)

	result := dispatcher.Publish(context.Background(), &entity.PublishRequest{
		ContentItemID:  1,
		Platform:       "FACEBOOK",
		OrganizationID: 10,
		AdaptedContent: &entity.PublishContent{Body: "адаптировано"},
	})

	require.True(t, result.Success)
	require.NotNil(t, captured)
	assert.Equal(t, "адаптировано", captured.Content.Body)
}

type capturingPublisher struct {
	platform   entity.Platform
	providerID string
	captured   **entity.PlatformPublishRequest
}

func (c *capturingPublisher) Platform() entity.Platform { return c.platform }

func (c *capturingPublisher) Publish(_ context.Context, request *entity.PlatformPublishRequest) (string, error) {
	*c.captured = request
	return c.providerID, nil
}

func TestPublishDispatcher_RecordPublishOutcome(t *testing.T) {
	publisher := &fakePublisher{platform: entity.PlatformFacebook}
	f := newDispatcherFixture(DispatcherConfig{}, publisher)

	f.dispatcher.RecordPublishOutcome(7, &entity.PublishResult{Success: true, ProviderID: "fb_123"}, "job-1", time.Second)
	f.dispatcher.RecordPublishOutcome(7, &entity.PublishResult{Success: false, Error: "boom"}, "job-2", time.Second)

	require.Equal(t, []string{entity.ScheduleStatusPublished, entity.ScheduleStatusFailed}, f.contentRepo.updates)
}
