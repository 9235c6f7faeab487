package repositories

import (
	"context"
	"time"

	"sgspadmin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	List(ctx context.Context) ([]*models.AdminUser, error)
	Update(ctx context.Context, admin *models.AdminUser) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

const adminColumns = `id, name, email, role, password_hash, active, last_login_at, created_at, updated_at`

type adminRepo struct {
	db DBTX
}

func NewAdminRepo(db DBTX) AdminRepository {
	return &adminRepo{db: db}
}

func scanAdmin(row pgx.Row) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	err := row.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.Role, &admin.PasswordHash,
		&admin.Active, &admin.LastLoginAt, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, name, email, role, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, admin.ID, admin.Name, admin.Email, admin.Role, admin.PasswordHash, admin.Active).
		Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *adminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1`
	admin, err := scanAdmin(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return admin, nil
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE email = $1`
	admin, err := scanAdmin(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return admin, nil
}

func (r *adminRepo) List(ctx context.Context) ([]*models.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []*models.AdminUser{}
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (r *adminRepo) Update(ctx context.Context, admin *models.AdminUser) error {
	query := `
		UPDATE admin_users
		SET name = $1, role = $2, active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, admin.Name, admin.Role, admin.Active, admin.ID).Scan(&admin.UpdatedAt)
	return mapNoRows(err)
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE admin_users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE admin_users SET last_login_at = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}
