package repo

import (
	"errors"

	"socialflow-backend/internal/entity"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

type User interface {
	// AddUser добавляет нового пользователя
	AddUser(user *entity.User) (int, error)
	// GetUser возвращает пользователя по его ID
	GetUser(userID int) (*entity.User, error)
	// GetUserByEmail возвращает пользователя по его email
	GetUserByEmail(email string) (*entity.User, error)
	// UpdatePassword обновляет пароль пользователя
	UpdatePassword(userID int, passwordHash string) error
}
