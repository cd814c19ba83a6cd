package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type User struct {
	userUseCase   usecase.User
	authManager   utils.Auth
	cookieManager utils.Cookie
}

func NewUser(userUseCase usecase.User, authManager utils.Auth, cookieManager utils.Cookie) *User {
	return &User{
		userUseCase:   userUseCase,
		authManager:   authManager,
		cookieManager: cookieManager,
	}
}

func (u *User) Configure(server *echo.Group) {
	server.POST("/register", u.Register)
	server.POST("/login", u.Login)
	server.GET("/me", u.Me)
	server.PUT("/password", u.UpdatePassword)
}

func (u *User) Register(c echo.Context) error {
	request := &entity.RegisterRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	userID, err := u.userUseCase.Register(request)
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists) || errors.Is(err, usecase.ErrPasswordTooShort):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при регистрации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	token, err := u.authManager.CreateToken(userID)
	if err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	expires := time.Now().AddDate(1, 0, 0)
	c.SetCookie(u.cookieManager.SetSessionCookie(token, expires))
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": userID,
	})
}

func (u *User) Login(c echo.Context) error {
	request := &entity.LoginRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	userID, err := u.userUseCase.Login(request.Email, request.Password)
	switch {
	case errors.Is(err, repo.ErrInvalidPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Неверный email или пароль",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при авторизации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	token, err := u.authManager.Login(userID)
	if err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	expires := time.Now().AddDate(1, 0, 0)
	c.SetCookie(u.cookieManager.SetSessionCookie(token, expires))
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": userID,
	})
}

func (u *User) Me(c echo.Context) error {
	userID, err := u.authManager.CheckAuthFromContext(c)
	switch {
	case errors.Is(err, utils.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при проверке авторизации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	profile, err := u.userUseCase.GetUser(userID)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении профиля пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

func (u *User) UpdatePassword(c echo.Context) error {
	userID, err := u.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	err = u.userUseCase.UpdatePassword(userID, request.OldPassword, request.NewPassword)
	switch {
	case errors.Is(err, repo.ErrInvalidPassword) || errors.Is(err, usecase.ErrPasswordTooShort):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при смене пароля: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
