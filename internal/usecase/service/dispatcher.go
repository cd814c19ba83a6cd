package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
	"socialflow-backend/pkg/retry"
)

// DispatcherConfig задаёт явную конфигурацию диспетчера. Глобальный dry-run
// считывается из окружения один раз при старте и передаётся сюда, а не
// читается из ambient-состояния на каждый вызов.
type DispatcherConfig struct {
	// GlobalDryRun задаёт значение dry-run по умолчанию; организация может
	// переопределить его своими настройками автопостинга
	GlobalDryRun bool
}

type PublishDispatcher struct {
	cfg         DispatcherConfig
	contentRepo repo.Content
	orgRepo     repo.Organization
	metricsRepo repo.Metrics
	tokens      usecase.TokenProvider
	publishers  map[entity.Platform]usecase.PlatformPublisher
}

func NewPublishDispatcher(
	cfg DispatcherConfig,
	contentRepo repo.Content,
	orgRepo repo.Organization,
	metricsRepo repo.Metrics,
	tokens usecase.TokenProvider,
	publishers ...usecase.PlatformPublisher,
) usecase.PublishDispatcher {
	registry := make(map[entity.Platform]usecase.PlatformPublisher, len(publishers))
	for _, publisher := range publishers {
		registry[publisher.Platform()] = publisher
	}
	return &PublishDispatcher{
		cfg:         cfg,
		contentRepo: contentRepo,
		orgRepo:     orgRepo,
		metricsRepo: metricsRepo,
		tokens:      tokens,
		publishers:  registry,
	}
}

// Publish выполняет одну попытку публикации. Порядок шагов фиксирован:
// идемпотентность -> политика dry-run -> токен -> контент -> платформа.
// Токен и контент запрашиваются даже при уже известном dry-run: их отсутствие
// должно всплывать как ошибка и в dry-run режиме.
func (d *PublishDispatcher) Publish(ctx context.Context, request *entity.PublishRequest) *entity.PublishResult {
	// идемпотентность: если расписание уже опубликовано, провайдера не трогаем
	if request.ScheduleID != 0 {
		schedules, err := d.contentRepo.GetContentSchedules(request.ContentItemID)
		if err != nil {
			return failure(err.Error())
		}
		for _, schedule := range schedules {
			if schedule.ID == request.ScheduleID && schedule.Status == entity.ScheduleStatusPublished {
				return &entity.PublishResult{
					Success:    true,
					ProviderID: schedule.ProviderID,
					StatusCode: http.StatusOK,
				}
			}
		}
	}

	isDryRun := d.resolveDryRun(request.OrganizationID)

	platform := entity.NormalizePlatform(request.Platform)

	accessToken, err := d.tokens.GetValidAccessToken(ctx, request.OrganizationID, platform.Lower())
	if err != nil {
		if errors.Is(err, usecase.ErrNoValidToken) {
			return failure("No valid token available")
		}
		return failure(err.Error())
	}

	content, err := d.resolveContent(request)
	if err != nil {
		return failure(err.Error())
	}

	publisher, ok := d.publishers[platform]
	if !ok {
		return failure(fmt.Sprintf("Unsupported platform: %s", platform))
	}

	// dry-run работает как жёсткий гейт для всех платформ без исключения
	if isDryRun {
		return &entity.PublishResult{
			Success:    true,
			ProviderID: "dry_run_" + platform.Lower(),
			StatusCode: http.StatusOK,
		}
	}

	providerID, err := publisher.Publish(ctx, &entity.PlatformPublishRequest{
		AccessToken:   accessToken,
		Content:       content,
		MediaURLs:     request.MediaURLs,
		ContentItemID: request.ContentItemID,
	})
	if err != nil {
		return normalizeError(err)
	}

	d.recordMetrics(request.ContentItemID, platform, content)

	return &entity.PublishResult{
		Success:    true,
		ProviderID: providerID,
		StatusCode: http.StatusOK,
	}
}

// resolveDryRun вычисляет действующий dry-run: дефолт из конфигурации,
// поверх него явный dry_run организации; выключенный автопостинг всегда
// форсирует dry-run, что бы ни стояло в dry_run.
func (d *PublishDispatcher) resolveDryRun(organizationID int) bool {
	isDryRun := d.cfg.GlobalDryRun
	if organizationID == 0 {
		return isDryRun
	}
	settings, err := d.orgRepo.GetAutopostSettings(organizationID)
	if err != nil {
		// настройки читаются best-effort: при ошибке действует дефолт
		log.Warnf("failed to load autopost settings for organization %d: %v", organizationID, err)
		return isDryRun
	}
	if settings == nil {
		return isDryRun
	}
	if settings.DryRun != nil {
		isDryRun = *settings.DryRun
	}
	if settings.AutopostEnabled != nil && !*settings.AutopostEnabled {
		isDryRun = true
	}
	return isDryRun
}

func (d *PublishDispatcher) resolveContent(request *entity.PublishRequest) (*entity.PublishContent, error) {
	item, err := d.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil || item == nil {
		return nil, errors.New("Content not found")
	}
	version, err := d.contentRepo.GetCurrentContentVersion(request.ContentItemID)
	if err != nil || version == nil {
		return nil, errors.New("Content not found")
	}
	if request.AdaptedContent != nil {
		return request.AdaptedContent, nil
	}
	return &entity.PublishContent{Body: version.Body, Metadata: version.Metadata}, nil
}

// recordMetrics пишет сэмпл метрик после успешной публикации.
// Сбой здесь не должен превратить успешную публикацию в ошибку.
func (d *PublishDispatcher) recordMetrics(contentItemID int, platform entity.Platform, content *entity.PublishContent) {
	version, err := d.contentRepo.GetCurrentContentVersion(contentItemID)
	versionID := 0
	if err == nil && version != nil {
		versionID = version.ID
	}
	_, err = d.metricsRepo.AddPostMetrics(&entity.PostMetrics{
		ContentItemID: contentItemID,
		Platform:      platform.Lower(),
		VersionID:     versionID,
		PostedAt:      time.Now(),
	})
	if err != nil {
		log.Errorf("failed to record post metrics for content %d: %v", contentItemID, err)
	}
}

// RecordPublishOutcome переносит итог публикации в запись расписания.
// Запись чисто бухгалтерская: её сбой логируется, но не всплывает наверх.
func (d *PublishDispatcher) RecordPublishOutcome(scheduleID int, result *entity.PublishResult, jobID string, duration time.Duration) {
	status := entity.ScheduleStatusFailed
	if result.Success {
		status = entity.ScheduleStatusPublished
	}
	err := retry.Retry(func() error {
		return d.contentRepo.UpdateScheduleStatus(scheduleID, status, &entity.ScheduleStatusDetails{
			ProviderID:   result.ProviderID,
			ErrorMessage: result.Error,
			JobID:        jobID,
			Duration:     duration,
			StatusCode:   result.StatusCode,
			RetryAfter:   result.RetryAfter,
		})
	})
	if err != nil {
		log.Errorf("failed to record publish outcome for schedule %d: %v", scheduleID, err)
	}
}

func failure(message string) *entity.PublishResult {
	return &entity.PublishResult{Success: false, Error: message}
}

// normalizeError сводит разнородные ошибки платформ к единому результату:
// 429 -> rate limit с retry-after, 401 -> протухший токен, прочие HTTP-статусы
// сохраняют сообщение провайдера, штатный отказ провайдера -> 400,
// ошибки без HTTP-ответа -> без статуса.
func normalizeError(err error) *entity.PublishResult {
	var providerErr *entity.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.StatusCode {
		case http.StatusTooManyRequests:
			return &entity.PublishResult{
				Success:    false,
				Error:      "Rate limited",
				RetryAfter: providerErr.RetryAfter,
				StatusCode: http.StatusTooManyRequests,
			}
		case http.StatusUnauthorized:
			return &entity.PublishResult{
				Success:    false,
				Error:      "Token expired",
				StatusCode: http.StatusUnauthorized,
			}
		default:
			return &entity.PublishResult{
				Success:    false,
				Error:      providerErr.Message,
				StatusCode: providerErr.StatusCode,
			}
		}
	}
	var providerFailure *entity.ProviderFailure
	if errors.As(err, &providerFailure) {
		return &entity.PublishResult{
			Success:    false,
			Error:      providerFailure.Message,
			StatusCode: http.StatusBadRequest,
		}
	}
	return failure(err.Error())
}
