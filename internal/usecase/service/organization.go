package service

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type Organization struct {
	orgRepo repo.Organization
}

func NewOrganization(orgRepo repo.Organization) usecase.Organization {
	return &Organization{orgRepo: orgRepo}
}

func (o *Organization) CreateOrganization(request *entity.CreateOrganizationRequest) (int, error) {
	if len(request.Name) == 0 || len(request.Name) > 64 {
		return 0, usecase.ErrNameLenIncorrect
	}
	organizationID, err := o.orgRepo.AddOrganization(&entity.Organization{
		Name:      request.Name,
		Secret:    uuid.NewString(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return 0, err
	}
	// создатель организации получает права администратора
	err = o.orgRepo.SetOrganizationUserRoles(organizationID, request.RequestUserID, []string{repo.AdminRole})
	if err != nil {
		return 0, err
	}
	return organizationID, nil
}

func (o *Organization) GetOrganization(userID int, organizationID int) (*entity.Organization, error) {
	roles, err := o.orgRepo.GetOrganizationUserRoles(organizationID, userID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, usecase.ErrUserForbidden
	}
	org, err := o.orgRepo.GetOrganization(organizationID)
	if errors.Is(err, repo.ErrOrganizationNotFound) {
		return nil, usecase.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (o *Organization) UpdateRoles(request *entity.UpdateRolesRequest) error {
	// менять роли может только админ организации
	roles, err := o.orgRepo.GetOrganizationUserRoles(request.OrganizationID, request.RequestUserID)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, repo.AdminRole) {
		return usecase.ErrUserForbidden
	}
	// проверяем, что в запросе перечислены лишь доступные роли
	availableRoles := []string{repo.AdminRole, repo.PostsRole}
	for _, role := range request.Roles {
		if !slices.Contains(availableRoles, role) {
			return usecase.ErrRoleDoesNotExist
		}
	}
	// самому себе пользователь поменять роли не может
	if request.UserID == request.RequestUserID {
		return usecase.ErrUserForbidden
	}
	return o.orgRepo.SetOrganizationUserRoles(request.OrganizationID, request.UserID, request.Roles)
}

func (o *Organization) GetAutopostSettings(userID int, organizationID int) (*entity.AutopostSettings, error) {
	roles, err := o.orgRepo.GetOrganizationUserRoles(organizationID, userID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, usecase.ErrUserForbidden
	}
	settings, err := o.orgRepo.GetAutopostSettings(organizationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		// настроек ещё нет - отдаём пустые, действуют значения по умолчанию
		settings = &entity.AutopostSettings{OrganizationID: organizationID}
	}
	return settings, nil
}

func (o *Organization) UpdateAutopostSettings(request *entity.UpdateAutopostSettingsRequest) error {
	roles, err := o.orgRepo.GetOrganizationUserRoles(request.OrganizationID, request.RequestUserID)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, repo.AdminRole) {
		return usecase.ErrUserForbidden
	}
	return o.orgRepo.UpdateAutopostSettings(&entity.AutopostSettings{
		OrganizationID:  request.OrganizationID,
		DryRun:          request.DryRun,
		AutopostEnabled: request.AutopostEnabled,
	})
}
