package utils

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"

	"socialflow-backend/internal/entity"
)

// OAuthCredentials держит клиентские креды OAuth-приложений.
// Meta покрывает и Facebook, и Instagram; Google покрывает YouTube и GBP.
type OAuthCredentials struct {
	MetaClientID         string
	MetaClientSecret     string
	LinkedInClientID     string
	LinkedInClientSecret string
	GoogleClientID       string
	GoogleClientSecret   string
	RedirectBaseURL      string
}

// OAuthManager хранит конфигурацию OAuth по каждой платформе
type OAuthManager struct {
	configs map[string]*oauth2.Config
}

func NewOAuthManager(creds OAuthCredentials) *OAuthManager {
	redirect := func(platform string) string {
		return fmt.Sprintf("%s/api/connections/callback/%s", creds.RedirectBaseURL, platform)
	}
	configs := map[string]*oauth2.Config{
		entity.PlatformFacebook.Lower(): {
			ClientID:     creds.MetaClientID,
			ClientSecret: creds.MetaClientSecret,
			RedirectURL:  redirect(entity.PlatformFacebook.Lower()),
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"pages_manage_posts", "pages_read_engagement", "pages_show_list"},
		},
		entity.PlatformInstagram.Lower(): {
			ClientID:     creds.MetaClientID,
			ClientSecret: creds.MetaClientSecret,
			RedirectURL:  redirect(entity.PlatformInstagram.Lower()),
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"instagram_basic", "instagram_content_publish", "pages_show_list"},
		},
		entity.PlatformLinkedIn.Lower(): {
			ClientID:     creds.LinkedInClientID,
			ClientSecret: creds.LinkedInClientSecret,
			RedirectURL:  redirect(entity.PlatformLinkedIn.Lower()),
			Endpoint:     linkedin.Endpoint,
			Scopes:       []string{"w_organization_social", "r_organization_admin"},
		},
		entity.PlatformYouTube.Lower(): {
			ClientID:     creds.GoogleClientID,
			ClientSecret: creds.GoogleClientSecret,
			RedirectURL:  redirect(entity.PlatformYouTube.Lower()),
			Endpoint:     google.Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube.upload", "https://www.googleapis.com/auth/youtube"},
		},
		entity.PlatformGBP.Lower(): {
			ClientID:     creds.GoogleClientID,
			ClientSecret: creds.GoogleClientSecret,
			RedirectURL:  redirect(entity.PlatformGBP.Lower()),
			Endpoint:     google.Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/business.manage"},
		},
	}
	return &OAuthManager{configs: configs}
}

// Configs возвращает конфигурации по платформам (в нижнем регистре)
func (o *OAuthManager) Configs() map[string]*oauth2.Config {
	return o.configs
}

// AuthURL возвращает URL для авторизации на платформе
func (o *OAuthManager) AuthURL(platform, state string) (string, error) {
	config, ok := o.configs[platform]
	if !ok {
		return "", fmt.Errorf("unknown platform: %s", platform)
	}
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange обменивает код авторизации на токен
func (o *OAuthManager) Exchange(ctx context.Context, platform, code string) (*oauth2.Token, error) {
	config, ok := o.configs[platform]
	if !ok {
		return nil, fmt.Errorf("unknown platform: %s", platform)
	}
	return config.Exchange(ctx, code)
}
