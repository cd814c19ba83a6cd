package linkedin

import (
	"context"
	"errors"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
)

// Publisher публикует посты от имени первой организации, доступной токену.
type Publisher struct {
	client *Client
	media  usecase.Media
}

func NewPublisher(client *Client, media usecase.Media) usecase.PlatformPublisher {
	return &Publisher{
		client: client,
		media:  media,
	}
}

func (p *Publisher) Platform() entity.Platform {
	return entity.PlatformLinkedIn
}

func (p *Publisher) Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error) {
	companies, err := p.client.GetUserCompanies(ctx, request.AccessToken)
	if err != nil {
		return "", err
	}
	if len(companies) == 0 {
		return "", errors.New("No LinkedIn companies found for this account")
	}
	company := companies[0]

	if len(request.MediaURLs) == 0 {
		return p.client.PublishCompanyPost(ctx, request.AccessToken, company.URN, request.Content.Body)
	}

	// пост с изображением: регистрация загрузки, PUT байтов, затем сам пост
	data, err := p.media.Fetch(ctx, request.MediaURLs[0])
	if err != nil {
		return "", err
	}
	asset, err := p.media.ProcessImage(data, entity.PlatformLinkedIn)
	if err != nil {
		return "", err
	}
	uploadURL, assetURN, err := p.client.RegisterImageUpload(ctx, request.AccessToken, company.URN)
	if err != nil {
		return "", err
	}
	if err := p.client.UploadImage(ctx, request.AccessToken, uploadURL, asset.Data); err != nil {
		return "", err
	}
	return p.client.PublishImagePost(ctx, request.AccessToken, company.URN, request.Content.Body, assetURN)
}
