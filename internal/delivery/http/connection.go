package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

// Connection управляет OAuth-подключениями организации к платформам.
type Connection struct {
	authManager  utils.Auth
	oauthManager *utils.OAuthManager
	tokenRepo    repo.Token
	orgRepo      repo.Organization
}

func NewConnection(authManager utils.Auth, oauthManager *utils.OAuthManager, tokenRepo repo.Token, orgRepo repo.Organization) *Connection {
	return &Connection{
		authManager:  authManager,
		oauthManager: oauthManager,
		tokenRepo:    tokenRepo,
		orgRepo:      orgRepo,
	}
}

func (h *Connection) Configure(server *echo.Group) {
	server.GET("/list", h.List)
	server.GET("/connect/:platform", h.Connect)
	server.GET("/callback/:platform", h.Callback)
	server.DELETE("/:platform", h.Disconnect)
}

func (h *Connection) checkAdmin(c echo.Context, organizationID int) (int, error) {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return -1, utils.ErrUnauthorized
	}
	roles, err := h.orgRepo.GetOrganizationUserRoles(organizationID, userID)
	if err != nil {
		return -1, err
	}
	if !slices.Contains(roles, repo.AdminRole) {
		return -1, repo.ErrOrganizationNotFound
	}
	return userID, nil
}

// List возвращает состояние подключений организации по всем платформам
func (h *Connection) List(c echo.Context) error {
	organizationID, err := strconv.Atoi(c.QueryParam("organization_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди организации",
		})
	}
	if _, err := h.checkAdmin(c, organizationID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Недостаточно прав",
		})
	}
	tokens, err := h.tokenRepo.GetTokens(organizationID)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении подключений: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	connected := make(map[string]*entity.SocialToken, len(tokens))
	for _, token := range tokens {
		connected[token.Platform] = token
	}
	connections := make([]*entity.ConnectionInfo, 0, len(entity.Platforms()))
	for _, platform := range entity.Platforms() {
		info := &entity.ConnectionInfo{Platform: platform.Lower()}
		if token, ok := connected[platform.Lower()]; ok {
			info.Connected = true
			info.ExpiresAt = token.ExpiresAt
		}
		connections = append(connections, info)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"connections": connections,
	})
}

// Connect отдаёт URL авторизации на платформе.
// organization_id кодируется в state и проверяется на callback.
func (h *Connection) Connect(c echo.Context) error {
	platform := strings.ToLower(c.Param("platform"))
	organizationID, err := strconv.Atoi(c.QueryParam("organization_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди организации",
		})
	}
	if _, err := h.checkAdmin(c, organizationID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Недостаточно прав",
		})
	}
	org, err := h.orgRepo.GetOrganization(organizationID)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении организации: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	state := fmt.Sprintf("%d:%s", organizationID, org.Secret)
	authURL, err := h.oauthManager.AuthURL(platform, state)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неизвестная платформа: " + platform,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"auth_url": authURL,
	})
}

// Callback обменивает код авторизации на токен и сохраняет подключение
func (h *Connection) Callback(c echo.Context) error {
	platform := strings.ToLower(c.Param("platform"))
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Отсутствует code или state",
		})
	}
	organizationID, secret, ok := strings.Cut(state, ":")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный state",
		})
	}
	orgID, err := strconv.Atoi(organizationID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный state",
		})
	}
	org, err := h.orgRepo.GetOrganization(orgID)
	if err != nil || org.Secret != secret {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Неверный state",
		})
	}
	oauthToken, err := h.oauthManager.Exchange(c.Request().Context(), platform, code)
	if err != nil {
		c.Logger().Errorf("Ошибка при обмене кода авторизации: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Не удалось обменять код авторизации",
		})
	}
	token := &entity.SocialToken{
		OrganizationID: orgID,
		Platform:       platform,
		AccessToken:    oauthToken.AccessToken,
		RefreshToken:   oauthToken.RefreshToken,
	}
	if !oauthToken.Expiry.IsZero() {
		expiry := oauthToken.Expiry
		token.ExpiresAt = &expiry
	}
	if _, err := h.tokenRepo.UpsertToken(token); err != nil {
		c.Logger().Errorf("Ошибка при сохранении подключения: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"platform": platform,
	})
}

// Disconnect удаляет подключение организации к платформе
func (h *Connection) Disconnect(c echo.Context) error {
	platform := strings.ToLower(c.Param("platform"))
	organizationID, err := strconv.Atoi(c.QueryParam("organization_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди организации",
		})
	}
	if _, err := h.checkAdmin(c, organizationID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Недостаточно прав",
		})
	}
	err = h.tokenRepo.DeleteToken(organizationID, platform)
	switch {
	case errors.Is(err, repo.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Подключение не найдено",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при удалении подключения: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
