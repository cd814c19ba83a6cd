package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type User struct {
	userRepo repo.User
}

func NewUser(userRepo repo.User) usecase.User {
	return &User{userRepo: userRepo}
}

func (u *User) Register(req *entity.RegisterRequest) (int, error) {
	if len(req.Password) < 8 {
		return 0, usecase.ErrPasswordTooShort
	}
	if _, err := u.userRepo.GetUserByEmail(req.Email); err == nil {
		return 0, usecase.ErrEmailAlreadyExists
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return 0, err
	}

	// Хешируем пароль пользователя
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := &entity.User{
		Nickname:     req.Nickname,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hashedPassword),
	}

	return u.userRepo.AddUser(user)
}

func (u *User) Login(email, password string) (int, error) {
	user, err := u.userRepo.GetUserByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return 0, repo.ErrInvalidPassword
		}
		return 0, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return 0, repo.ErrInvalidPassword
	}

	return user.ID, nil
}

func (u *User) GetUser(userID int) (*entity.UserProfile, error) {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &entity.UserProfile{
		ID:       user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
	}, nil
}

func (u *User) UpdatePassword(userID int, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return usecase.ErrPasswordTooShort
	}
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword))
	if err != nil {
		return repo.ErrInvalidPassword
	}

	// Хешируем новый пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return u.userRepo.UpdatePassword(userID, string(hashedPassword))
}
