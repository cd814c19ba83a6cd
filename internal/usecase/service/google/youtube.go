package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
	"socialflow-backend/pkg/httpx"
)

const DefaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubePublisher создаёт ресурс видео одним авторизованным вызовом.
// Никакого разрешения страниц/компаний нет: токен используется напрямую.
type YouTubePublisher struct {
	httpClient *http.Client
	baseURL    string
}

func NewYouTubePublisher(baseURL string) usecase.PlatformPublisher {
	if baseURL == "" {
		baseURL = DefaultYouTubeBaseURL
	}
	return &YouTubePublisher{
		httpClient: httpx.NewClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (y *YouTubePublisher) Platform() entity.Platform {
	return entity.PlatformYouTube
}

func (y *YouTubePublisher) Publish(ctx context.Context, request *entity.PlatformPublishRequest) (string, error) {
	title := request.Content.Metadata.Title
	if title == "" {
		title = request.Content.Body
	}
	resource := map[string]any{
		"snippet": map[string]any{
			"title":       title,
			"description": request.Content.Body,
		},
		"status": map[string]any{
			"privacyStatus": "public",
		},
	}
	if request.Content.Metadata.Tags != "" {
		resource["snippet"].(map[string]any)["tags"] = strings.Split(request.Content.Metadata.Tags, ",")
	}

	encoded, err := json.Marshal(resource)
	if err != nil {
		return "", err
	}
	url := y.baseURL + "/videos?part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+request.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
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
			Platform:   "youtube",
			StatusCode: resp.StatusCode,
			Message:    httpx.ErrorMessage(body, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
			RetryAfter: httpx.RetryAfterSeconds(resp.Header),
		}
	}
	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", &entity.ProviderFailure{Platform: "youtube", Message: "provider returned no video id"}
	}
	return response.ID, nil
}
