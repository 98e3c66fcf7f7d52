package assets

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
	ErrAssetNotFound     = errors.New("asset not found")
	ErrAssetNotAvailable = errors.New("asset not available for issue")
	ErrAssetNotAssigned  = errors.New("asset not currently assigned")
	ErrDuplicateAsset    = errors.New("asset id or serial number already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
)

type AssetRepository interface {
	CreateAsset(ctx context.Context, input Asset) (Asset, error)
	UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (Asset, error)
	GetAssetByID(ctx context.Context, id int64) (AssetDetail, error)
	ListAssets(ctx context.Context, filters AssetFilters) ([]AssetDetail, error)
	StockSummary(ctx context.Context) ([]StockRow, error)
	GetAssetHistory(ctx context.Context, id int64) (AssetHistory, error)
	IssueAsset(ctx context.Context, id, employeeID int64, remarks string) (Asset, Transaction, error)
	ReturnAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error)
	ScrapAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error)
}

type AssetFilters struct {
	Status     *string
	CategoryID *int64
	Branch     *string
	Search     *string
}

type postgresAssetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &postgresAssetRepository{pool: pool}
}

const assetColumns = `id, asset_id, serial_number, category_id, make, model, description, purchase_date, purchase_price, branch, status, assigned_to, assigned_date, created_at, updated_at`

const transactionColumns = `id, asset_id, employee_id, type, transaction_date, reason, remarks`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.AssetID, &a.SerialNumber, &a.CategoryID, &a.Make, &a.Model, &a.Description,
		&a.PurchaseDate, &a.PurchasePrice, &a.Branch, &a.Status, &a.AssignedTo, &a.AssignedDate,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pgErrorCode(err) == "23505" }
func isForeignKeyViolation(err error) bool { return pgErrorCode(err) == "23503" }

func (r *postgresAssetRepository) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	// New assets always start available and unassigned.
	query := `INSERT INTO assets (asset_id, serial_number, category_id, make, model, description, purchase_date, purchase_price, branch, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
              RETURNING ` + assetColumns

	row := r.pool.QueryRow(ctx, query, input.AssetID, input.SerialNumber, input.CategoryID, input.Make,
		input.Model, input.Description, input.PurchaseDate, input.PurchasePrice, input.Branch, StatusAvailable)

	created, err := scanAsset(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Asset{}, ErrDuplicateAsset
		}
		if isForeignKeyViolation(err) {
			return Asset{}, ErrCategoryNotFound
		}
		return Asset{}, err
	}

	return created, nil
}

func (r *postgresAssetRepository) UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (Asset, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if patch.AssetID != nil {
		addSet("asset_id", *patch.AssetID)
	}
	if patch.SerialNumber != nil {
		addSet("serial_number", *patch.SerialNumber)
	}
	if patch.CategoryID != nil {
		addSet("category_id", *patch.CategoryID)
	}
	if patch.Make != nil {
		addSet("make", *patch.Make)
	}
	if patch.Model != nil {
		addSet("model", *patch.Model)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.PurchaseDate != nil {
		addSet("purchase_date", *patch.PurchaseDate)
	}
	if patch.PurchasePrice != nil {
		addSet("purchase_price", *patch.PurchasePrice)
	}
	if patch.Branch != nil {
		if *patch.Branch == "" {
			addSet("branch", nil)
		} else {
			addSet("branch", *patch.Branch)
		}
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == 0 {
			addSet("assigned_to", nil)
		} else {
			addSet("assigned_to", *patch.AssignedTo)
		}
	}
	if patch.AssignedDate != nil {
		addSet("assigned_date", *patch.AssignedDate)
	}

	query := fmt.Sprintf(`UPDATE assets SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argPos, assetColumns)
	args = append(args, id)

	updated, err := scanAsset(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		if isUniqueViolation(err) {
			return Asset{}, ErrDuplicateAsset
		}
		if isForeignKeyViolation(err) {
			return Asset{}, referencedEntityError(err)
		}
		return Asset{}, err
	}

	return updated, nil
}

// referencedEntityError maps an FK violation on the assets table to the
// missing entity it points at.
func referencedEntityError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "assigned_to") {
		return ErrEmployeeNotFound
	}
	return ErrCategoryNotFound
}

const assetDetailQuery = `SELECT a.id, a.asset_id, a.serial_number, a.category_id, a.make, a.model, a.description,
              a.purchase_date, a.purchase_price, a.branch, a.status, a.assigned_to, a.assigned_date,
              a.created_at, a.updated_at, c.name,
              CASE WHEN e.id IS NULL THEN NULL ELSE e.first_name || ' ' || e.last_name END
              FROM assets a
              JOIN categories c ON c.id = a.category_id
              LEFT JOIN employees e ON e.id = a.assigned_to`

func scanAssetDetail(row pgx.Row) (AssetDetail, error) {
	var d AssetDetail
	err := row.Scan(&d.ID, &d.AssetID, &d.SerialNumber, &d.CategoryID, &d.Make, &d.Model, &d.Description,
		&d.PurchaseDate, &d.PurchasePrice, &d.Branch, &d.Status, &d.AssignedTo, &d.AssignedDate,
		&d.CreatedAt, &d.UpdatedAt, &d.CategoryName, &d.AssignedEmployee)
	return d, err
}

func (r *postgresAssetRepository) GetAssetByID(ctx context.Context, id int64) (AssetDetail, error) {
	row := r.pool.QueryRow(ctx, assetDetailQuery+` WHERE a.id = $1`, id)

	detail, err := scanAssetDetail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AssetDetail{}, ErrAssetNotFound
		}
		return AssetDetail{}, err
	}

	return detail, nil
}

func (r *postgresAssetRepository) ListAssets(ctx context.Context, filters AssetFilters) ([]AssetDetail, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.category_id = $%d", argPos))
		args = append(args, *filters.CategoryID)
		argPos++
	}

	if filters.Branch != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.branch = $%d", argPos))
		args = append(args, *filters.Branch)
		argPos++
	}

	if filters.Search != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(a.asset_id LIKE $%d OR a.serial_number LIKE $%d OR a.make LIKE $%d OR a.model LIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+*filters.Search+"%")
		argPos++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf("%s %s ORDER BY a.created_at DESC", assetDetailQuery, whereSQL)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assetList := make([]AssetDetail, 0)
	for rows.Next() {
		d, err := scanAssetDetail(rows)
		if err != nil {
			return nil, err
		}
		assetList = append(assetList, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assetList, nil
}

func (r *postgresAssetRepository) StockSummary(ctx context.Context) ([]StockRow, error) {
	query := `SELECT a.branch, c.id, c.name, COUNT(*), COALESCE(SUM(a.purchase_price), 0)
              FROM assets a
              JOIN categories c ON c.id = a.category_id
              WHERE a.status = $1 AND a.branch IS NOT NULL
              GROUP BY a.branch, c.id, c.name
              ORDER BY a.branch, c.name`

	rows, err := r.pool.Query(ctx, query, StatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := make([]StockRow, 0)
	for rows.Next() {
		var s StockRow
		if err := rows.Scan(&s.Branch, &s.CategoryID, &s.CategoryName, &s.Count, &s.TotalValue); err != nil {
			return nil, err
		}
		stock = append(stock, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stock, nil
}

func (r *postgresAssetRepository) GetAssetHistory(ctx context.Context, id int64) (AssetHistory, error) {
	detail, err := r.GetAssetByID(ctx, id)
	if err != nil {
		return AssetHistory{}, err
	}

	query := `SELECT t.id, t.asset_id, t.employee_id, t.type, t.transaction_date, t.reason, t.remarks,
              CASE WHEN e.id IS NULL THEN NULL ELSE e.first_name || ' ' || e.last_name END
              FROM transactions t
              LEFT JOIN employees e ON e.id = t.employee_id
              WHERE t.asset_id = $1
              ORDER BY t.transaction_date DESC, t.id DESC`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return AssetHistory{}, err
	}
	defer rows.Close()

	entries := make([]TransactionDetail, 0)
	for rows.Next() {
		var t TransactionDetail
		if err := rows.Scan(&t.ID, &t.AssetID, &t.EmployeeID, &t.Type, &t.TransactionDate, &t.Reason, &t.Remarks, &t.EmployeeName); err != nil {
			return AssetHistory{}, err
		}
		entries = append(entries, t)
	}

	if err := rows.Err(); err != nil {
		return AssetHistory{}, err
	}

	return AssetHistory{Asset: detail, Transactions: entries}, nil
}

// lockAsset reads the asset row under FOR UPDATE so concurrent state changes
// on the same asset serialize for the rest of the transaction.
func lockAsset(ctx context.Context, tx pgx.Tx, id int64) (Asset, error) {
	row := tx.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1 FOR UPDATE`, id)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, assetID int64, employeeID *int64, txType, reason, remarks string) (Transaction, error) {
	query := `INSERT INTO transactions (asset_id, employee_id, type, transaction_date, reason, remarks)
              VALUES ($1, $2, $3, NOW(), $4, $5)
              RETURNING ` + transactionColumns

	row := tx.QueryRow(ctx, query, assetID, employeeID, txType, reason, remarks)

	var t Transaction
	if err := row.Scan(&t.ID, &t.AssetID, &t.EmployeeID, &t.Type, &t.TransactionDate, &t.Reason, &t.Remarks); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// IssueAsset assigns an available asset to an employee and appends the issue
// ledger entry. Both writes commit together or not at all.
func (r *postgresAssetRepository) IssueAsset(ctx context.Context, id, employeeID int64, remarks string) (Asset, Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Asset{}, Transaction{}, err
	}
	defer tx.Rollback(ctx)

	current, err := lockAsset(ctx, tx, id)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			// Missing and non-available assets fail the same guard.
			return Asset{}, Transaction{}, ErrAssetNotAvailable
		}
		return Asset{}, Transaction{}, err
	}
	if !current.CanIssue() {
		return Asset{}, Transaction{}, ErrAssetNotAvailable
	}

	row := tx.QueryRow(ctx, `UPDATE assets
              SET status = $1, assigned_to = $2, assigned_date = NOW(), updated_at = NOW()
              WHERE id = $3
              RETURNING `+assetColumns, StatusAssigned, employeeID, id)

	updated, err := scanAsset(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Asset{}, Transaction{}, ErrEmployeeNotFound
		}
		return Asset{}, Transaction{}, err
	}

	entry, err := insertTransaction(ctx, tx, id, &employeeID, TransactionIssue, "", remarks)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Asset{}, Transaction{}, ErrEmployeeNotFound
		}
		return Asset{}, Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Asset{}, Transaction{}, err
	}

	return updated, entry, nil
}

// ReturnAsset takes an assigned asset back. The ledger entry references the
// employee who held it, captured before the assignment is cleared.
func (r *postgresAssetRepository) ReturnAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Asset{}, Transaction{}, err
	}
	defer tx.Rollback(ctx)

	current, err := lockAsset(ctx, tx, id)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return Asset{}, Transaction{}, ErrAssetNotAssigned
		}
		return Asset{}, Transaction{}, err
	}
	if !current.CanReturn() {
		return Asset{}, Transaction{}, ErrAssetNotAssigned
	}

	holder := current.AssignedTo

	row := tx.QueryRow(ctx, `UPDATE assets
              SET status = $1, assigned_to = NULL, assigned_date = NULL, updated_at = NOW()
              WHERE id = $2
              RETURNING `+assetColumns, StatusAvailable, id)

	updated, err := scanAsset(row)
	if err != nil {
		return Asset{}, Transaction{}, err
	}

	entry, err := insertTransaction(ctx, tx, id, holder, TransactionReturn, reason, remarks)
	if err != nil {
		return Asset{}, Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Asset{}, Transaction{}, err
	}

	return updated, entry, nil
}

// ScrapAsset retires an asset from any status. The guard is existence only,
// so scrapping an already scrapped asset appends another ledger entry.
func (r *postgresAssetRepository) ScrapAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Asset{}, Transaction{}, err
	}
	defer tx.Rollback(ctx)

	current, err := lockAsset(ctx, tx, id)
	if err != nil {
		return Asset{}, Transaction{}, err
	}

	holder := current.AssignedTo

	row := tx.QueryRow(ctx, `UPDATE assets
              SET status = $1, assigned_to = NULL, assigned_date = NULL, updated_at = NOW()
              WHERE id = $2
              RETURNING `+assetColumns, StatusScrapped, id)

	updated, err := scanAsset(row)
	if err != nil {
		return Asset{}, Transaction{}, err
	}

	entry, err := insertTransaction(ctx, tx, id, holder, TransactionScrap, reason, remarks)
	if err != nil {
		return Asset{}, Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Asset{}, Transaction{}, err
	}

	return updated, entry, nil
}
