package usecase

import (
	"errors"

	"socialflow-backend/internal/entity"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrNameLenIncorrect     = errors.New("organization name too long")
	ErrRoleDoesNotExist     = errors.New("role does not exist")
)

type Organization interface {
	// CreateOrganization создаёт организацию, автор получает роль admin
	CreateOrganization(request *entity.CreateOrganizationRequest) (int, error)
	// GetOrganization возвращает организацию с участниками
	GetOrganization(userID int, organizationID int) (*entity.Organization, error)
	// UpdateRoles задаёт роли участника
	UpdateRoles(request *entity.UpdateRolesRequest) error
	// GetAutopostSettings возвращает настройки автопостинга
	GetAutopostSettings(userID int, organizationID int) (*entity.AutopostSettings, error)
	// UpdateAutopostSettings сохраняет настройки автопостинга
	UpdateAutopostSettings(request *entity.UpdateAutopostSettingsRequest) error
}
