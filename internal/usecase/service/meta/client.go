package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"socialflow-backend/internal/entity"
	"socialflow-backend/pkg/httpx"
)

const DefaultBaseURL = "https://graph.facebook.com/v21.0"

// Client оборачивает Graph API тонким слоем. Методы возвращают айди созданных
// объектов; не-2xx ответ превращается в *entity.ProviderError с разобранным
// сообщением и Retry-After.
type Client struct {
	httpClient *http.Client
	baseURL    string
	platform   string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpx.NewClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		platform:   "meta",
	}
}

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// GetUserPages возвращает страницы, от имени которых может действовать токен.
func (c *Client) GetUserPages(ctx context.Context, accessToken string) ([]Page, error) {
	var response struct {
		Data []Page `json:"data"`
	}
	params := url.Values{"access_token": {accessToken}}
	err := c.getJSON(ctx, "/me/accounts", params, &response)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetInstagramAccount возвращает айди Instagram business аккаунта, привязанного к странице.
func (c *Client) GetInstagramAccount(ctx context.Context, pageAccessToken, pageID string) (string, error) {
	var response struct {
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	params := url.Values{
		"access_token": {pageAccessToken},
		"fields":       {"instagram_business_account"},
	}
	err := c.getJSON(ctx, "/"+pageID, params, &response)
	if err != nil {
		return "", err
	}
	if response.InstagramBusinessAccount == nil {
		return "", nil
	}
	return response.InstagramBusinessAccount.ID, nil
}

// PublishFacebookPost публикует текстовый пост на страницу.
func (c *Client) PublishFacebookPost(ctx context.Context, pageAccessToken, pageID, message string) (string, error) {
	params := url.Values{
		"access_token": {pageAccessToken},
		"message":      {message},
	}
	return c.postForID(ctx, "/"+pageID+"/feed", params)
}

// UploadFacebookPhoto загружает фото с подписью на страницу.
func (c *Client) UploadFacebookPhoto(ctx context.Context, pageAccessToken, pageID, caption string, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("access_token", pageAccessToken); err != nil {
		return "", err
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("source", "photo.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+pageID+"/photos", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.doForID(req)
}

// CreateMediaContainer создаёт контейнер медиа для Instagram и возвращает его айди.
// Контейнер служит обязательным промежуточным ресурсом: публикация ссылается на него
// отдельным вызовом PublishMediaContainer.
func (c *Client) CreateMediaContainer(ctx context.Context, accessToken, igUserID string, params url.Values) (string, error) {
	params.Set("access_token", accessToken)
	return c.postForID(ctx, "/"+igUserID+"/media", params)
}

// PublishMediaContainer публикует ранее созданный контейнер.
func (c *Client) PublishMediaContainer(ctx context.Context, accessToken, igUserID, creationID string) (string, error) {
	params := url.Values{
		"access_token": {accessToken},
		"creation_id":  {creationID},
	}
	return c.postForID(ctx, "/"+igUserID+"/media_publish", params)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.providerError(resp, body)
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postForID(ctx context.Context, path string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doForID(req)
}

func (c *Client) doForID(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.providerError(resp, body)
	}
	var response struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.PostID != "" {
		return response.PostID, nil
	}
	if response.ID == "" {
		// провайдер ответил 200, но поста нет: штатный отказ
		return "", &entity.ProviderFailure{
			Platform: c.platform,
			Message:  httpx.ErrorMessage(body, "provider returned no post id"),
		}
	}
	return response.ID, nil
}

func (c *Client) providerError(resp *http.Response, body []byte) *entity.ProviderError {
	return &entity.ProviderError{
		Platform:   c.platform,
		StatusCode: resp.StatusCode,
		Message:    httpx.ErrorMessage(body, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
		RetryAfter: httpx.RetryAfterSeconds(resp.Header),
	}
}
