package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category has assets")
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, input Category) (Category, error)
	UpdateCategory(ctx context.Context, input Category) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context, filters CategoryFilters) ([]Category, error)
}

type CategoryFilters struct {
	Status *string
	Search *string
}

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{pool: pool}
}

const categoryColumns = `id, name, description, status, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, input Category) (Category, error) {
	query := `INSERT INTO categories (name, description, status, created_at, updated_at)
              VALUES ($1, $2, $3, NOW(), NOW())
              RETURNING ` + categoryColumns

	created, err := scanCategory(r.pool.QueryRow(ctx, query, input.Name, input.Description, input.Status))
	if err != nil {
		if pgErrorCode(err) == "23505" {
			return Category{}, ErrDuplicateCategory
		}
		return Category{}, err
	}

	return created, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, input Category) (Category, error) {
	query := `UPDATE categories
              SET name = $1, description = $2, status = $3, updated_at = NOW()
              WHERE id = $4
              RETURNING ` + categoryColumns

	updated, err := scanCategory(r.pool.QueryRow(ctx, query, input.Name, input.Description, input.Status, input.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		if pgErrorCode(err) == "23505" {
			return Category{}, ErrDuplicateCategory
		}
		return Category{}, err
	}

	return updated, nil
}

// DeleteCategory hard-deletes the row; the assets FK restricts deletion while
// any asset still references the category.
func (r *postgresCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		if pgErrorCode(err) == "23503" {
			return ErrCategoryInUse
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, err
	}

	return category, nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context, filters CategoryFilters) ([]Category, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.Search != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("name LIKE $%d", argPos))
		args = append(args, "%"+*filters.Search+"%")
		argPos++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM categories %s ORDER BY created_at DESC`, categoryColumns, whereSQL)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categoryList := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categoryList = append(categoryList, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categoryList, nil
}
