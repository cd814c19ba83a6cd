package repo

import (
	"errors"

	"socialflow-backend/internal/entity"
)

const (
	AdminRole = "admin"
	PostsRole = "posts"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type Organization interface {
	// AddOrganization создаёт организацию и возвращает её айди
	AddOrganization(org *entity.Organization) (int, error)
	// GetOrganization возвращает организацию по айди
	GetOrganization(organizationID int) (*entity.Organization, error)
	// GetOrganizationUserRoles возвращает роли пользователя в организации
	GetOrganizationUserRoles(organizationID int, userID int) ([]string, error)
	// SetOrganizationUserRoles задаёт роли пользователя в организации
	SetOrganizationUserRoles(organizationID int, userID int, roles []string) error

	// GetAutopostSettings возвращает настройки автопостинга организации.
	// При отсутствии настроек возвращается nil, nil: действует значение по умолчанию из окружения.
	GetAutopostSettings(organizationID int) (*entity.AutopostSettings, error)
	// UpdateAutopostSettings сохраняет настройки автопостинга организации
	UpdateAutopostSettings(settings *entity.AutopostSettings) error
}
