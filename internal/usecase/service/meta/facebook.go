package meta

import (
	"context"
	"errors"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
)

// FacebookPublisher публикует текстовые и фото-посты на страницу Facebook.
type FacebookPublisher struct {
	client *Client
	media  usecase.Media
}

func NewFacebookPublisher(client *Client, media usecase.Media) usecase.PlatformPublisher {
	return &FacebookPublisher{
		client: client,
		media:  media,
	}
}

func (f *FacebookPublisher) Platform() entity.Platform {
	return entity.PlatformFacebook
}

func (f *FacebookPublisher) Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error) {
	pages, err := f.client.GetUserPages(ctx, request.AccessToken)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", errors.New("No Facebook pages found for this account")
	}
	// без ранжирования: публикуем на первую страницу из списка
	page := pages[0]

	if len(request.MediaURLs) > 0 {
		data, err := f.media.Fetch(ctx, request.MediaURLs[0])
		if err != nil {
			return "", err
		}
		asset, err := f.media.ProcessImage(data, entity.PlatformFacebook)
		if err != nil {
			return "", err
		}
		return f.client.UploadFacebookPhoto(ctx, page.AccessToken, page.ID, request.Content.Body, asset.Data)
	}
	return f.client.PublishFacebookPost(ctx, page.AccessToken, page.ID, request.Content.Body)
}
