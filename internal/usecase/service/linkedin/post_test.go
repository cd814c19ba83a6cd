package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialflow-backend/internal/entity"
)

type fakeMedia struct {
	processed []byte
}

func (f *fakeMedia) Fetch(context.Context, string) ([]byte, error) { return []byte("raw"), nil }

func (f *fakeMedia) ProcessImage([]byte, entity.Platform) (*entity.MediaAsset, error) {
	return &entity.MediaAsset{Data: f.processed, ContentType: "image/jpeg"}, nil
}

func (f *fakeMedia) StageAsset(context.Context, *entity.MediaAsset) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeMedia) UploadFile(context.Context, *entity.MediaFile) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeMedia) GetMediaFile(context.Context, int) (*entity.MediaFile, error) {
	return nil, errors.New("not implemented")
}

func TestPublisher_NoCompanies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer server.Close()

	publisher := NewPublisher(NewClient(server.URL), &fakeMedia{})
	_, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
		AccessToken: "t",
		Content:     &entity.PublishContent{Body: "пост"},
	})
	require.EqualError(t, err, "No LinkedIn companies found for this account")
}

func TestPublisher_TextPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		switch r.URL.Path {
		case "/organizationAcls":
			assert.Equal(t, "roleAssignee", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"elements":[{"organization":"urn:li:organization:1","role":"ADMINISTRATOR"}]}`))
		case "/ugcPosts":
			body, _ := io.ReadAll(r.Body)
			var post map[string]any
			require.NoError(t, json.Unmarshal(body, &post))
			assert.Equal(t, "urn:li:organization:1", post["author"])
			_, _ = w.Write([]byte(`{"id":"urn:li:share:42"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	publisher := NewPublisher(NewClient(server.URL), &fakeMedia{})
	postID, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
		AccessToken: "t",
		Content:     &entity.PublishContent{Body: "пост"},
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:42", postID)
}

func TestPublisher_ImagePostFlow(t *testing.T) {
	var steps []string
	uploaded := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/organizationAcls":
			steps = append(steps, "acls")
			_, _ = w.Write([]byte(`{"elements":[{"organization":"urn:li:organization:1"}]}`))
		case r.URL.Path == "/assets" && r.URL.Query().Get("action") == "registerUpload":
			steps = append(steps, "register")
			host := "http://" + r.Host
			_, _ = w.Write([]byte(`{"value":{"asset":"urn:li:digitalmediaAsset:abc","uploadMechanism":{"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest":{"uploadUrl":"` + host + `/upload"}}}}`))
		case r.URL.Path == "/upload" && r.Method == http.MethodPut:
			steps = append(steps, "upload")
			body, _ := io.ReadAll(r.Body)
			uploaded = len(body) > 0
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/ugcPosts":
			steps = append(steps, "post")
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), "urn:li:digitalmediaAsset:abc")
			assert.Contains(t, string(body), `"shareMediaCategory":"IMAGE"`)
			_, _ = w.Write([]byte(`{"id":"urn:li:share:77"}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	publisher := NewPublisher(NewClient(server.URL), &fakeMedia{processed: []byte{0xff}})
	postID, err := publisher.Publish(context.Background(), &entity.PlatformPublishRequest{
		AccessToken: "t",
		Content:     &entity.PublishContent{Body: "с картинкой"},
		MediaURLs:   []string{"https://cdn.example.com/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:77", postID)
	assert.True(t, uploaded)
	// строгий порядок: регистрация, байты, пост
	require.Equal(t, []string{"acls", "register", "upload", "post"}, steps)
}

func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"throttled"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetUserCompanies(context.Background(), "t")
	var providerErr *entity.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
	require.NotNil(t, providerErr.RetryAfter)
	assert.Equal(t, 30, *providerErr.RetryAfter)
	assert.Equal(t, "throttled", providerErr.Message)
}
