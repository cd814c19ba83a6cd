package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
	"socialflow-backend/pkg/httpx"
)

const DefaultBusinessBaseURL = "https://mybusiness.googleapis.com/v4"

// BusinessPublisher создаёт local post в профиле Google Business одним
// авторизованным вызовом. Локация задаётся при конструировании:
// у профиля организации она одна.
type BusinessPublisher struct {
	httpClient *http.Client
	baseURL    string
	// locationName содержит ресурсное имя вида accounts/{account}/locations/{location}
	locationName string
}

func NewBusinessPublisher(baseURL, locationName string) usecase.PlatformPublisher {
	if baseURL == "" {
		baseURL = DefaultBusinessBaseURL
	}
	return &BusinessPublisher{
		httpClient:   httpx.NewClient(),
		baseURL:      strings.TrimRight(baseURL, "/"),
		locationName: locationName,
	}
}

func (b *BusinessPublisher) Platform() entity.Platform {
	return entity.PlatformGBP
}

func (b *BusinessPublisher) Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error) {
	if b.locationName == "" {
		return "", errors.New("No Google Business location configured")
	}

	resource := map[string]any{
		"languageCode": "en-US",
		"summary":      request.Content.Body,
		"topicType":    "STANDARD",
	}
	if len(request.MediaURLs) > 0 {
		resource["media"] = []map[string]any{
			{
				"mediaFormat": "PHOTO",
				"sourceUrl":   request.MediaURLs[0],
			},
		}
	}

	encoded, err := json.Marshal(resource)
	if err != nil {
		return "", err
	}
	url := b.baseURL + "/" + b.locationName + "/localPosts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+request.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &entity.ProviderError{
			Platform:   "gbp",
			StatusCode: resp.StatusCode,
			Message:    httpx.ErrorMessage(body, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
			RetryAfter: httpx.RetryAfterSeconds(resp.Header),
		}
	}
	var response struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Name == "" {
		return "", &entity.ProviderFailure{Platform: "gbp", Message: "provider returned no post name"}
	}
	return response.Name, nil
}
