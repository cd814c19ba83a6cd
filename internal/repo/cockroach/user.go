package cockroach

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

type UserDB struct {
	db *sqlx.DB
}

func NewUser(db *sqlx.DB) repo.User {
	return &UserDB{db: db}
}

func (u *UserDB) AddUser(user *entity.User) (int, error) {
	query := `
        INSERT INTO app_user (nickname, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int
	err := u.db.QueryRow(query, user.Nickname, user.Email, user.PasswordHash, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (u *UserDB) GetUser(userID int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, nickname, email, password_hash, created_at FROM app_user WHERE id = $1`
	err := u.db.Get(user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (u *UserDB) GetUserByEmail(email string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, nickname, email, password_hash, created_at FROM app_user WHERE email = $1`
	err := u.db.Get(user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (u *UserDB) UpdatePassword(userID int, passwordHash string) error {
	query := `UPDATE app_user SET password_hash = $2 WHERE id = $1`
	_, err := u.db.Exec(query, userID, passwordHash)
	return err
}
