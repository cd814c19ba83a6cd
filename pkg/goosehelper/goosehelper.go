package goosehelper

import (
	"database/sql"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// MigrateUp накатывает миграции из migrationsDir до последней версии.
// Схема обязана быть актуальной до старта сервиса, поэтому ошибка фатальна.
func MigrateUp(db *sql.DB, migrationsDir string) {
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose set dialect failed: %v", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		log.Fatalf("goose up failed: %v", err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		log.Fatalf("goose version check failed: %v", err)
	}
	log.Infof("database schema is at version %d", version)
}
