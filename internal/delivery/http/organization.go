package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
)

type Organization struct {
	authManager utils.Auth
	orgUseCase  usecase.Organization
}

func NewOrganization(authManager utils.Auth, orgUseCase usecase.Organization) *Organization {
	return &Organization{
		authManager: authManager,
		orgUseCase:  orgUseCase,
	}
}

func (o *Organization) Configure(server *echo.Group) {
	server.POST("/create", o.CreateOrganization)
	server.GET("/:id", o.GetOrganization)
	server.PUT("/roles", o.UpdateRoles)
	server.GET("/:id/autopost", o.GetAutopostSettings)
	server.PUT("/autopost", o.UpdateAutopostSettings)
}

func (o *Organization) CreateOrganization(c echo.Context) error {
	userID, err := o.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.CreateOrganizationRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.RequestUserID = userID
	organizationID, err := o.orgUseCase.CreateOrganization(request)
	switch {
	case errors.Is(err, usecase.ErrNameLenIncorrect):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при создании организации: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"organization_id": organizationID,
	})
}

func (o *Organization) GetOrganization(c echo.Context) error {
	userID, err := o.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	organizationID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди организации",
		})
	}
	org, err := o.orgUseCase.GetOrganization(userID, organizationID)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Нет доступа к организации",
		})
	case errors.Is(err, usecase.ErrOrganizationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Организация не найдена",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении организации: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, org)
}

func (o *Organization) UpdateRoles(c echo.Context) error {
	userID, err := o.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.UpdateRolesRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.RequestUserID = userID
	err = o.orgUseCase.UpdateRoles(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, usecase.ErrRoleDoesNotExist):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при обновлении ролей: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

func (o *Organization) GetAutopostSettings(c echo.Context) error {
	userID, err := o.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	organizationID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди организации",
		})
	}
	settings, err := o.orgUseCase.GetAutopostSettings(userID, organizationID)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Нет доступа к организации",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении настроек автопостинга: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, settings)
}

func (o *Organization) UpdateAutopostSettings(c echo.Context) error {
	userID, err := o.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.UpdateAutopostSettingsRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.RequestUserID = userID
	err = o.orgUseCase.UpdateAutopostSettings(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при обновлении настроек автопостинга: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
