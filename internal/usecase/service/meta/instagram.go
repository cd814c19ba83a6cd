package meta

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
)

// InstagramPublisher публикует в Instagram business аккаунт, привязанный
// к странице Facebook. Подтип выбирается по metadata.media_type, по умолчанию
// photo. Каждая публикация идёт в два шага: создание контейнера, затем публикация
// по его айди.
type InstagramPublisher struct {
	client *Client
	media  usecase.Media
}

func NewInstagramPublisher(client *Client, media usecase.Media) usecase.PlatformPublisher {
	return &InstagramPublisher{
		client: client,
		media:  media,
	}
}

func (i *InstagramPublisher) Platform() entity.Platform {
	return entity.PlatformInstagram
}

func (i *InstagramPublisher) Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error) {
	mediaType := strings.ToLower(request.Content.Metadata.MediaType)
	if mediaType == "" {
		mediaType = "photo"
	}

	// прекондиции проверяются до любых вызовов провайдера:
	// терминальная ошибка не должна стоить ни одного HTTP-запроса
	if err := checkPrecondition(mediaType, request.MediaURLs); err != nil {
		return "", err
	}

	igUserID, err := i.resolveAccount(ctx, request.AccessToken)
	if err != nil {
		return "", err
	}

	switch mediaType {
	case "photo":
		return i.publishPhoto(ctx, request, igUserID)
	case "story":
		return i.publishStory(ctx, request, igUserID)
	case "reel":
		return i.publishReel(ctx, request, igUserID)
	case "igtv":
		return i.publishIGTV(ctx, request, igUserID)
	case "carousel":
		return i.publishCarousel(ctx, request, igUserID)
	default:
		return "", errors.New("Unsupported Instagram media type: " + mediaType)
	}
}

func checkPrecondition(mediaType string, mediaURLs []string) error {
	switch mediaType {
	case "photo":
		if len(mediaURLs) < 1 {
			return errors.New("Instagram photo post requires at least 1 image")
		}
	case "story":
		if len(mediaURLs) < 1 {
			return errors.New("Instagram story requires a media URL")
		}
	case "reel":
		if len(mediaURLs) < 1 {
			return errors.New("Instagram reel requires a video URL")
		}
	case "igtv":
		if len(mediaURLs) < 1 {
			return errors.New("Instagram IGTV requires a video URL")
		}
	case "carousel":
		if len(mediaURLs) < 2 {
			return errors.New("Instagram carousel requires at least 2 images")
		}
	}
	return nil
}

func (i *InstagramPublisher) resolveAccount(ctx context.Context, accessToken string) (string, error) {
	pages, err := i.client.GetUserPages(ctx, accessToken)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", errors.New("No Facebook pages found for this account")
	}
	igUserID, err := i.client.GetInstagramAccount(ctx, pages[0].AccessToken, pages[0].ID)
	if err != nil {
		return "", err
	}
	if igUserID == "" {
		return "", errors.New("No Instagram business account found for this account")
	}
	return igUserID, nil
}

// stageImage готовит изображение под лимиты Instagram и выкладывает его
// по временной ссылке: Graph API забирает медиа по URL, а не байтами.
func (i *InstagramPublisher) stageImage(ctx context.Context, mediaURL string) (string, error) {
	data, err := i.media.Fetch(ctx, mediaURL)
	if err != nil {
		return "", err
	}
	asset, err := i.media.ProcessImage(data, entity.PlatformInstagram)
	if err != nil {
		return "", err
	}
	return i.media.StageAsset(ctx, asset)
}

func (i *InstagramPublisher) publishPhoto(ctx context.Context, request *entity.PlatformPublishRequest, igUserID string) (string, error) {
	imageURL, err := i.stageImage(ctx, request.MediaURLs[0])
	if err != nil {
		return "", err
	}
	params := url.Values{
		"image_url": {imageURL},
		"caption":   {request.Content.Body},
	}
	creationID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
	if err != nil {
		return "", err
	}
	return i.client.PublishMediaContainer(ctx, request.AccessToken, igUserID, creationID)
}

func (i *InstagramPublisher) publishStory(ctx context.Context, request *entity.PlatformPublishRequest, igUserID string) (string, error) {
	params := url.Values{"media_type": {"STORIES"}}
	if isVideoURL(request.MediaURLs[0]) {
		params.Set("video_url", request.MediaURLs[0])
	} else {
		imageURL, err := i.stageImage(ctx, request.MediaURLs[0])
		if err != nil {
			return "", err
		}
		params.Set("image_url", imageURL)
	}
	creationID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
	if err != nil {
		return "", err
	}
	return i.client.PublishMediaContainer(ctx, request.AccessToken, igUserID, creationID)
}

func (i *InstagramPublisher) publishReel(ctx context.Context, request *entity.PlatformPublishRequest, igUserID string) (string, error) {
	params := url.Values{
		"media_type": {"REELS"},
		"video_url":  {request.MediaURLs[0]},
		"caption":    {request.Content.Body},
	}
	if request.Content.Metadata.MusicRef != "" {
		params.Set("audio_name", request.Content.Metadata.MusicRef)
	}
	creationID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
	if err != nil {
		return "", err
	}
	return i.client.PublishMediaContainer(ctx, request.AccessToken, igUserID, creationID)
}

func (i *InstagramPublisher) publishIGTV(ctx context.Context, request *entity.PlatformPublishRequest, igUserID string) (string, error) {
	params := url.Values{
		"media_type": {"VIDEO"},
		"video_url":  {request.MediaURLs[0]},
		"caption":    {request.Content.Body},
	}
	if request.Content.Metadata.Title != "" {
		params.Set("title", request.Content.Metadata.Title)
	}
	if request.Content.Metadata.Description != "" {
		params.Set("description", request.Content.Metadata.Description)
	}
	creationID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
	if err != nil {
		return "", err
	}
	return i.client.PublishMediaContainer(ctx, request.AccessToken, igUserID, creationID)
}

func (i *InstagramPublisher) publishCarousel(ctx context.Context, request *entity.PlatformPublishRequest, igUserID string) (string, error) {
	// дочерние контейнеры создаются строго последовательно: параллельный
	// fan-out умножает шанс словить rate limit провайдера
	childIDs := make([]string, 0, len(request.MediaURLs))
	for _, mediaURL := range request.MediaURLs {
		imageURL, err := i.stageImage(ctx, mediaURL)
		if err != nil {
			return "", err
		}
		params := url.Values{
			"image_url":        {imageURL},
			"is_carousel_item": {"true"},
		}
		childID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
		if err != nil {
			return "", err
		}
		childIDs = append(childIDs, childID)
	}

	params := url.Values{
		"media_type": {"CAROUSEL"},
		"children":   {strings.Join(childIDs, ",")},
		"caption":    {request.Content.Body},
	}
	creationID, err := i.client.CreateMediaContainer(ctx, request.AccessToken, igUserID, params)
	if err != nil {
		return "", err
	}
	return i.client.PublishMediaContainer(ctx, request.AccessToken, igUserID, creationID)
}

func isVideoURL(mediaURL string) bool {
	lower := strings.ToLower(mediaURL)
	for _, ext := range []string{".mp4", ".mov", ".m4v"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}
