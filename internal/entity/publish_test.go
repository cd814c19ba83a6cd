package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		for _, input := range []string{"facebook", "Facebook", "FACEBOOK", "  facebook  "} {
			p, err := ParsePlatform(input)
			require.NoError(t, err, input)
			assert.Equal(t, PlatformFacebook, p)
		}
	})

	t.Run("all known platforms parse", func(t *testing.T) {
		for _, p := range Platforms() {
			parsed, err := ParsePlatform(p.Lower())
			require.NoError(t, err)
			assert.Equal(t, p, parsed)
		}
	})

	t.Run("unknown platform", func(t *testing.T) {
		_, err := ParsePlatform("tiktok")
		require.Error(t, err)
		assert.EqualError(t, err, "unsupported platform: TIKTOK")
	})
}

func TestPlatformLower(t *testing.T) {
	assert.Equal(t, "linkedin", PlatformLinkedIn.Lower())
	assert.Equal(t, "gbp", PlatformGBP.Lower())
}

func TestSocialTokenExpired(t *testing.T) {
	t.Run("no expiry never expires", func(t *testing.T) {
		token := &SocialToken{AccessToken: "a"}
		assert.False(t, token.Expired())
	})

	t.Run("future expiry", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		token := &SocialToken{ExpiresAt: &future}
		assert.False(t, token.Expired())
	})

	t.Run("past expiry", func(t *testing.T) {
		past := time.Now().Add(-time.Second)
		token := &SocialToken{ExpiresAt: &past}
		assert.True(t, token.Expired())
	})

	t.Run("expiring within safety margin counts as expired", func(t *testing.T) {
		soon := time.Now().Add(30 * time.Second)
		token := &SocialToken{ExpiresAt: &soon}
		assert.True(t, token.Expired())
	})
}

func TestPublishJobToPublishRequest(t *testing.T) {
	body := "короткая версия"
	job := &PublishJob{
		ID:             "job_1",
		ScheduleID:     2,
		ContentItemID:  1,
		OrganizationID: 10,
		Platform:       "INSTAGRAM",
		MediaURLs:      []string{"https://cdn.example.com/a.jpg"},
		AdaptedBody:    &body,
	}

	request := job.ToPublishRequest()
	assert.Equal(t, 1, request.ContentItemID)
	assert.Equal(t, "INSTAGRAM", request.Platform)
	assert.Equal(t, 2, request.ScheduleID)
	assert.Equal(t, 10, request.OrganizationID)
	assert.Equal(t, job.MediaURLs, request.MediaURLs)
	require.NotNil(t, request.AdaptedContent)
	assert.Equal(t, "короткая версия", request.AdaptedContent.Body)

	job.AdaptedBody = nil
	assert.Nil(t, job.ToPublishRequest().AdaptedContent)
}
