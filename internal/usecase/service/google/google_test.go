package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialflow-backend/internal/entity"
)

func TestYouTubePublisher_Publish(t *testing.T) {
	t.Run("title fallback and tags", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/videos", r.URL.Path)
			assert.Equal(t, "snippet,status", r.URL.Query().Get("part"))
			assert.Equal(t, "Bearer yt-token", r.Header.Get("Authorization"))

			body, _ := io.ReadAll(r.Body)
			var resource map[string]any
			require.NoError(t, json.Unmarshal(body, &resource))
			snippet := resource["snippet"].(map[string]any)
			// title не задан - подставляется тело поста
			assert.Equal(t, "Описание ролика", snippet["title"])
			assert.Equal(t, []any{"go", "backend"}, snippet["tags"])
			status := resource["status"].(map[string]any)
			assert.Equal(t, "public", status["privacyStatus"])

			_, _ = w.Write([]byte(`{"id":"yt_video_1"}`))
		}))
		defer server.Close()

		publisher := NewYouTubePublisher(server.URL)
		videoID, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "yt-token",
			Content: &entity.PublishContent{
				Body:     "Описание ролика",
				Metadata: entity.VersionMetadata{Tags: "go,backend"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "yt_video_1", videoID)
	})

	t.Run("empty id is a provider failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		publisher := NewYouTubePublisher(server.URL)
		_, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "t",
			Content:     &entity.PublishContent{Body: "x"},
		})
		var failure *entity.ProviderFailure
		require.ErrorAs(t, err, &failure)
	})

	t.Run("quota exceeded carries retry-after", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "120")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"quotaExceeded"}}`))
		}))
		defer server.Close()

		publisher := NewYouTubePublisher(server.URL)
		_, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "t",
			Content:     &entity.PublishContent{Body: "x"},
		})
		var providerErr *entity.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
		require.NotNil(t, providerErr.RetryAfter)
		assert.Equal(t, 120, *providerErr.RetryAfter)
		assert.Equal(t, "quotaExceeded", providerErr.Message)
	})
}

func TestBusinessPublisher_Publish(t *testing.T) {
	t.Run("no location configured", func(t *testing.T) {
		publisher := NewBusinessPublisher("http://unused", "")
		_, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "t",
			Content:     &entity.PublishContent{Body: "x"},
		})
		require.EqualError(t, err, "No Google Business location configured")
	})

	t.Run("local post with photo", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/accounts/1/locations/2/localPosts", r.URL.Path)

			body, _ := io.ReadAll(r.Body)
			var resource map[string]any
			require.NoError(t, json.Unmarshal(body, &resource))
			assert.Equal(t, "Открылись!", resource["summary"])
			assert.Equal(t, "STANDARD", resource["topicType"])
			media := resource["media"].([]any)[0].(map[string]any)
			assert.Equal(t, "PHOTO", media["mediaFormat"])
			assert.Equal(t, "https://cdn.example.com/a.jpg", media["sourceUrl"])

			_, _ = w.Write([]byte(`{"name":"accounts/1/locations/2/localPosts/55"}`))
		}))
		defer server.Close()

		publisher := NewBusinessPublisher(server.URL, "accounts/1/locations/2")
		name, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "t",
			Content:     &entity.PublishContent{Body: "Открылись!"},
			MediaURLs:   []string{"https://cdn.example.com/a.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, "accounts/1/locations/2/localPosts/55", name)
	})

	t.Run("text-only post omits media", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var resource map[string]any
			require.NoError(t, json.Unmarshal(body, &resource))
			_, hasMedia := resource["media"]
			assert.False(t, hasMedia)
			_, _ = w.Write([]byte(`{"name":"accounts/1/locations/2/localPosts/56"}`))
		}))
		defer server.Close()

		publisher := NewBusinessPublisher(server.URL, "accounts/1/locations/2")
		name, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
			AccessToken: "t",
			Content:     &entity.PublishContent{Body: "текст"},
		})
		require.NoError(t, err)
		assert.Equal(t, "accounts/1/locations/2/localPosts/56", name)
	})
}
