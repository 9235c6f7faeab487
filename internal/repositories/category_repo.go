package repositories

import (
	"context"

	"sgspadmin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Archive(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int64, error)
}

const categoryColumns = `id, name, slug, parent_id, description, archived, created_at, updated_at`

type categoryRepo struct {
	db DBTX
}

func NewCategoryRepo(db DBTX) CategoryRepository {
	return &categoryRepo{db: db}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.ParentID,
		&category.Description, &category.Archived, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, parent_id, description, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, category.ID, category.Name, category.Slug, category.ParentID, category.Description).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, parent_id = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING archived, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, category.Name, category.Slug, category.ParentID, category.Description, category.ID).
		Scan(&category.Archived, &category.CreatedAt, &category.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return mapNoRows(err)
}

// Archive soft-deletes the category.
func (r *categoryRepo) Archive(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET archived = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

// List returns non-archived categories.
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE archived = FALSE ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE archived = FALSE`).Scan(&count)
	return count, err
}
