package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/repo"
)

type Auth interface {
	CheckAuth(tokenString string) (int, error)
	CheckAuthFromContext(c echo.Context) (int, error)
	Login(userID int) (string, error)
	CreateToken(userID int) (string, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type jwtLoginClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	jwtSecretKey  []byte
	userRepo      repo.User
	tokenLifetime time.Duration
}

func NewAuthManager(jwtSecretKey []byte, userRepo repo.User, tokenLifetime time.Duration) *AuthManager {
	return &AuthManager{
		jwtSecretKey:  jwtSecretKey,
		userRepo:      userRepo,
		tokenLifetime: tokenLifetime,
	}
}

// CheckAuth проверяет токен и возвращает ID пользователя, если токен валиден.
// Если токен невалиден или пользователь не существует, возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuth(tokenString string) (int, error) {
	claims := jwtLoginClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return -1, ErrUnauthorized
	}
	if _, err := a.userRepo.GetUser(claims.UserID); err != nil {
		return -1, ErrUnauthorized
	}
	return claims.UserID, nil
}

// CheckAuthFromContext достаёт токен из куки session и проверяет его
func (a *AuthManager) CheckAuthFromContext(c echo.Context) (int, error) {
	cookie, err := c.Cookie("session")
	if err != nil {
		return -1, ErrUnauthorized
	}
	return a.CheckAuth(cookie.Value)
}

// Login авторизует пользователя и возвращает токен
func (a *AuthManager) Login(userID int) (string, error) {
	user, err := a.userRepo.GetUser(userID)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return a.CreateToken(user.ID)
}

// CreateToken создает токен для пользователя
func (a *AuthManager) CreateToken(userID int) (string, error) {
	claims := jwtLoginClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecretKey)
}
