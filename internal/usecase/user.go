package usecase

import (
	"errors"

	"socialflow-backend/internal/entity"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password too short, minimum length is 8 characters")
)

type User interface {
	// Register регистрирует нового пользователя и возвращает его айди
	Register(request *entity.RegisterRequest) (int, error)
	// Login проверяет креды и возвращает айди пользователя
	Login(email, password string) (int, error)
	// GetUser возвращает профиль пользователя
	GetUser(userID int) (*entity.UserProfile, error)
	// UpdatePassword меняет пароль пользователя
	UpdatePassword(userID int, oldPassword, newPassword string) error
}
