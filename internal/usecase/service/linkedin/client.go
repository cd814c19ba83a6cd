package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"socialflow-backend/internal/entity"
	"socialflow-backend/pkg/httpx"
)

const DefaultBaseURL = "https://api.linkedin.com/v2"

// Client оборачивает LinkedIn REST API (ugcPosts + assets).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpx.NewClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type Company struct {
	URN  string
	Name string
}

// GetUserCompanies возвращает организации, где токен имеет роль администратора.
func (c *Client) GetUserCompanies(ctx context.Context, accessToken string) ([]Company, error) {
	var response struct {
		Elements []struct {
			Organization string `json:"organization"`
			Role         string `json:"role"`
		} `json:"elements"`
	}
	path := "/organizationAcls?q=roleAssignee&role=ADMINISTRATOR"
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &response); err != nil {
		return nil, err
	}
	companies := make([]Company, 0, len(response.Elements))
	for _, element := range response.Elements {
		companies = append(companies, Company{URN: element.Organization})
	}
	return companies, nil
}

// PublishCompanyPost публикует текстовый пост от имени организации.
func (c *Client) PublishCompanyPost(ctx context.Context, accessToken, companyURN, text string) (string, error) {
	body := map[string]any{
		"author":         companyURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	var response struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ugcPosts", accessToken, body, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", &entity.ProviderFailure{Platform: "linkedin", Message: "provider returned no post id"}
	}
	return response.ID, nil
}

// RegisterImageUpload регистрирует загрузку изображения и возвращает
// URL для PUT байтов и URN будущего ассета.
func (c *Client) RegisterImageUpload(ctx context.Context, accessToken, companyURN string) (uploadURL string, assetURN string, err error) {
	body := map[string]any{
		"registerUploadRequest": map[string]any{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   companyURN,
			"serviceRelationships": []map[string]any{
				{
					"relationshipType": "OWNER",
					"identifier":       "urn:li:userGeneratedContent",
				},
			},
		},
	}
	var response struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism map[string]struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/assets?action=registerUpload", accessToken, body, &response); err != nil {
		return "", "", err
	}
	for _, mechanism := range response.Value.UploadMechanism {
		if mechanism.UploadURL != "" {
			return mechanism.UploadURL, response.Value.Asset, nil
		}
	}
	return "", "", &entity.ProviderFailure{Platform: "linkedin", Message: "no upload mechanism in register response"}
}

// UploadImage загружает байты изображения по зарегистрированному URL.
func (c *Client) UploadImage(ctx context.Context, accessToken, uploadURL string, image []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(image))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return c.providerError(resp, body)
	}
	return nil
}

// PublishImagePost публикует пост с ранее загруженным изображением.
func (c *Client) PublishImagePost(ctx context.Context, accessToken, companyURN, text, assetURN string) (string, error) {
	body := map[string]any{
		"author":         companyURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "IMAGE",
				"media": []map[string]any{
					{
						"status": "READY",
						"media":  assetURN,
					},
				},
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	var response struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ugcPosts", accessToken, body, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", &entity.ProviderFailure{Platform: "linkedin", Message: "provider returned no post id"}
	}
	return response.ID, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.providerError(resp, responseBody)
	}
	if out != nil && len(responseBody) > 0 {
		return json.Unmarshal(responseBody, out)
	}
	return nil
}

func (c *Client) providerError(resp *http.Response, body []byte) *entity.ProviderError {
	return &entity.ProviderError{
		Platform:   "linkedin",
		StatusCode: resp.StatusCode,
		Message:    httpx.ErrorMessage(body, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
		RetryAfter: httpx.RetryAfterSeconds(resp.Header),
	}
}
