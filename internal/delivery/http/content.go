package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type Content struct {
	authManager    utils.Auth
	contentUseCase usecase.Content
}

func NewContent(authManager utils.Auth, contentUseCase usecase.Content) *Content {
	return &Content{
		authManager:    authManager,
		contentUseCase: contentUseCase,
	}
}

func (h *Content) Configure(server *echo.Group) {
	server.POST("/add", h.AddContent)
	server.PUT("/edit", h.EditContent)
	server.GET("/list", h.GetContents)
	server.GET("/:id", h.GetContent)
	server.POST("/schedule", h.AddSchedule)
	server.GET("/:id/schedules", h.GetSchedules)
}

func (h *Content) AddContent(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.AddContentRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID
	contentItemID, err := h.contentUseCase.AddContent(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при создании контента: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"content_item_id": contentItemID,
	})
}

func (h *Content) EditContent(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.EditContentRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID
	versionID, err := h.contentUseCase.EditContent(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, usecase.ErrContentBodyRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repo.ErrContentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Контент не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при редактировании контента: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"version_id": versionID,
	})
}

func (h *Content) GetContents(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	filter := &entity.ContentFilter{}
	if err := utils.ReadQuery(c, filter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	items, err := h.contentUseCase.GetContents(userID, filter)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении списка контента: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
	})
}

func (h *Content) GetContent(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	contentItemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди контента",
		})
	}
	item, version, err := h.contentUseCase.GetContent(&entity.GetContentRequest{
		UserID:        userID,
		ContentItemID: contentItemID,
	})
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, repo.ErrContentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Контент не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении контента: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":    item,
		"version": version,
	})
}

func (h *Content) AddSchedule(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.AddScheduleRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID
	scheduleID, err := h.contentUseCase.AddSchedule(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, repo.ErrContentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Контент не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при создании расписания: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
	})
}

func (h *Content) GetSchedules(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	contentItemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди контента",
		})
	}
	schedules, err := h.contentUseCase.GetSchedules(&entity.GetContentRequest{
		UserID:        userID,
		ContentItemID: contentItemID,
	})
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, repo.ErrContentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Контент не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении расписаний: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedules": schedules,
	})
}
