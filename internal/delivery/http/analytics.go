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

type Analytics struct {
	authManager    utils.Auth
	metricsUseCase usecase.Metrics
}

func NewAnalytics(authManager utils.Auth, metricsUseCase usecase.Metrics) *Analytics {
	return &Analytics{
		authManager:    authManager,
		metricsUseCase: metricsUseCase,
	}
}

func (a *Analytics) Configure(server *echo.Group) {
	server.GET("/content", a.GetContentMetrics)
}

func (a *Analytics) GetContentMetrics(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.ContentMetricsRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID
	metrics, err := a.metricsUseCase.GetContentMetrics(request)
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
		c.Logger().Errorf("Ошибка при получении метрик: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"metrics": metrics,
	})
}
