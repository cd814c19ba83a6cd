package cockroach

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

type OrganizationDB struct {
	db *sqlx.DB
}

func NewOrganization(db *sqlx.DB) repo.Organization {
	return &OrganizationDB{db: db}
}

func (o *OrganizationDB) AddOrganization(org *entity.Organization) (int, error) {
	query := `
        INSERT INTO organization (name, secret, created_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	var id int
	err := o.db.QueryRow(query, org.Name, org.Secret, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (o *OrganizationDB) GetOrganization(organizationID int) (*entity.Organization, error) {
	org := &entity.Organization{}
	query := `SELECT id, name, secret, created_at FROM organization WHERE id = $1`
	err := o.db.Get(org, query, organizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrOrganizationNotFound
		}
		return nil, err
	}

	rolesQuery := `SELECT organization_id, user_id, roles FROM organization_user_role WHERE organization_id = $1`
	rows, err := o.db.Queryx(rolesQuery, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		role := &entity.OrganizationRole{}
		if err := rows.Scan(&role.OrganizationID, &role.UserID, pq.Array(&role.Roles)); err != nil {
			return nil, err
		}
		org.Users = append(org.Users, role)
	}
	return org, rows.Err()
}

func (o *OrganizationDB) GetOrganizationUserRoles(organizationID int, userID int) ([]string, error) {
	var roles []string
	query := `SELECT roles FROM organization_user_role WHERE organization_id = $1 AND user_id = $2`
	err := o.db.QueryRow(query, organizationID, userID).Scan(pq.Array(&roles))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return roles, nil
}

func (o *OrganizationDB) SetOrganizationUserRoles(organizationID int, userID int, roles []string) error {
	query := `
        INSERT INTO organization_user_role (organization_id, user_id, roles)
        VALUES ($1, $2, $3)
        ON CONFLICT (organization_id, user_id) DO UPDATE SET roles = $3
    `
	_, err := o.db.Exec(query, organizationID, userID, pq.Array(roles))
	return err
}

func (o *OrganizationDB) GetAutopostSettings(organizationID int) (*entity.AutopostSettings, error) {
	settings := &entity.AutopostSettings{}
	query := `
        SELECT organization_id, dry_run, autopost_enabled
        FROM autopost_settings WHERE organization_id = $1
    `
	err := o.db.Get(settings, query, organizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// настроек нет: вызывающая сторона применяет дефолт из окружения
			return nil, nil
		}
		return nil, err
	}
	return settings, nil
}

func (o *OrganizationDB) UpdateAutopostSettings(settings *entity.AutopostSettings) error {
	query := `
        INSERT INTO autopost_settings (organization_id, dry_run, autopost_enabled)
        VALUES ($1, $2, $3)
        ON CONFLICT (organization_id) DO UPDATE SET dry_run = $2, autopost_enabled = $3
    `
	_, err := o.db.Exec(query, settings.OrganizationID, settings.DryRun, settings.AutopostEnabled)
	return err
}
