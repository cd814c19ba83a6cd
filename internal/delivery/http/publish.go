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

// Publish обслуживает ручной запуск публикации и статус запланированных публикаций.
type Publish struct {
	authManager    utils.Auth
	dispatcher     usecase.PublishDispatcher
	contentUseCase usecase.Content
}

func NewPublish(authManager utils.Auth, dispatcher usecase.PublishDispatcher, contentUseCase usecase.Content) *Publish {
	return &Publish{
		authManager:    authManager,
		dispatcher:     dispatcher,
		contentUseCase: contentUseCase,
	}
}

func (p *Publish) Configure(server *echo.Group) {
	server.POST("/trigger", p.Trigger)
	server.GET("/status/:id", p.ScheduleStatus)
}

// Trigger выполняет публикацию немедленно, минуя планировщик.
// Подчиняется той же политике dry-run, что и автопостинг.
func (p *Publish) Trigger(c echo.Context) error {
	userID, err := p.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &entity.PublishRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	// проверка доступа через элемент контента
	item, _, err := p.contentUseCase.GetContent(&entity.GetContentRequest{
		UserID:        userID,
		ContentItemID: request.ContentItemID,
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
		c.Logger().Errorf("Ошибка при проверке доступа к контенту: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	request.OrganizationID = item.OrganizationID

	result := p.dispatcher.Publish(c.Request().Context(), request)
	return c.JSON(http.StatusOK, result)
}

// ScheduleStatus возвращает запись расписания с итогом последней попытки
func (p *Publish) ScheduleStatus(c echo.Context) error {
	userID, err := p.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди расписания",
		})
	}
	schedule, err := p.contentUseCase.GetSchedule(userID, scheduleID)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Недостаточно прав",
		})
	case errors.Is(err, repo.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Расписание не найдено",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении статуса публикации: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, schedule)
}
