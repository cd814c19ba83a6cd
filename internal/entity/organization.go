package entity

import "time"

// Organization представляет арендатора системы: свои подключения, настройки автопостинга и участники.
type Organization struct {
	ID        int                 `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Secret    string              `json:"-" db:"secret"`
	Users     []*OrganizationRole `json:"users,omitempty"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}

type OrganizationRole struct {
	OrganizationID int      `json:"organization_id" db:"organization_id"`
	UserID         int      `json:"user_id" db:"user_id"`
	Roles          []string `json:"roles" db:"roles"`
}

type CreateOrganizationRequest struct {
	RequestUserID int    `json:"-"`
	Name          string `json:"name"`
}

type UpdateRolesRequest struct {
	RequestUserID  int      `json:"-"`
	OrganizationID int      `json:"organization_id"`
	UserID         int      `json:"user_id"`
	Roles          []string `json:"roles"`
}

type UpdateAutopostSettingsRequest struct {
	RequestUserID   int   `json:"-"`
	OrganizationID  int   `json:"organization_id"`
	DryRun          *bool `json:"dry_run,omitempty"`
	AutopostEnabled *bool `json:"autopost_enabled,omitempty"`
}
