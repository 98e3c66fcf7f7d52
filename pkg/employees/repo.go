package employees

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
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrDuplicateEmployee = errors.New("employee id or email already exists")
	ErrEmployeeHasAssets = errors.New("employee still holds assigned assets")
)

type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, input Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, input Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	GetEmployeeByID(ctx context.Context, id int64) (EmployeeDetail, error)
	GetEmployeeContact(ctx context.Context, id int64) (name, email string, err error)
	ListEmployees(ctx context.Context, filters EmployeeFilters) ([]Employee, error)
}

type EmployeeFilters struct {
	Status     *string
	Department *string
	Branch     *string
	Search     *string
}

type postgresEmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &postgresEmployeeRepository{pool: pool}
}

const employeeColumns = `id, employee_id, first_name, last_name, email, phone, department, designation, branch, status, joining_date, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.Department, &e.Designation, &e.Branch, &e.Status, &e.JoiningDate, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (r *postgresEmployeeRepository) CreateEmployee(ctx context.Context, input Employee) (Employee, error) {
	query := `INSERT INTO employees (employee_id, first_name, last_name, email, phone, department, designation, branch, status, joining_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
              RETURNING ` + employeeColumns

	row := r.pool.QueryRow(ctx, query, input.EmployeeID, input.FirstName, input.LastName, input.Email,
		input.Phone, input.Department, input.Designation, input.Branch, input.Status, input.JoiningDate)

	created, err := scanEmployee(row)
	if err != nil {
		if pgErrorCode(err) == "23505" {
			return Employee{}, ErrDuplicateEmployee
		}
		return Employee{}, err
	}

	return created, nil
}

func (r *postgresEmployeeRepository) UpdateEmployee(ctx context.Context, input Employee) (Employee, error) {
	query := `UPDATE employees
              SET employee_id = $1, first_name = $2, last_name = $3, email = $4, phone = $5,
                  department = $6, designation = $7, branch = $8, status = $9, joining_date = $10,
                  updated_at = NOW()
              WHERE id = $11
              RETURNING ` + employeeColumns

	row := r.pool.QueryRow(ctx, query, input.EmployeeID, input.FirstName, input.LastName, input.Email,
		input.Phone, input.Department, input.Designation, input.Branch, input.Status, input.JoiningDate, input.ID)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		if pgErrorCode(err) == "23505" {
			return Employee{}, ErrDuplicateEmployee
		}
		return Employee{}, err
	}

	return updated, nil
}

// DeleteEmployee hard-deletes the row. The assets FK restricts deletion while
// the employee still holds assets; ledger entries survive with their
// employee_id nulled by the transactions FK.
func (r *postgresEmployeeRepository) DeleteEmployee(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		if pgErrorCode(err) == "23503" {
			return ErrEmployeeHasAssets
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *postgresEmployeeRepository) GetEmployeeByID(ctx context.Context, id int64) (EmployeeDetail, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmployeeDetail{}, ErrEmployeeNotFound
		}
		return EmployeeDetail{}, err
	}

	query := `SELECT a.id, a.asset_id, a.serial_number, c.name, a.make, a.model, a.assigned_date
              FROM assets a
              JOIN categories c ON c.id = a.category_id
              WHERE a.assigned_to = $1
              ORDER BY a.assigned_date DESC`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return EmployeeDetail{}, err
	}
	defer rows.Close()

	held := make([]HeldAsset, 0)
	for rows.Next() {
		var a HeldAsset
		if err := rows.Scan(&a.ID, &a.AssetID, &a.SerialNumber, &a.CategoryName, &a.Make, &a.Model, &a.AssignedDate); err != nil {
			return EmployeeDetail{}, err
		}
		held = append(held, a)
	}

	if err := rows.Err(); err != nil {
		return EmployeeDetail{}, err
	}

	return EmployeeDetail{Employee: employee, AssignedAssets: held}, nil
}

func (r *postgresEmployeeRepository) GetEmployeeContact(ctx context.Context, id int64) (string, string, error) {
	row := r.pool.QueryRow(ctx, `SELECT first_name || ' ' || last_name, email FROM employees WHERE id = $1`, id)

	var name, email string
	if err := row.Scan(&name, &email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrEmployeeNotFound
		}
		return "", "", err
	}

	return name, email, nil
}

func (r *postgresEmployeeRepository) ListEmployees(ctx context.Context, filters EmployeeFilters) ([]Employee, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.Department != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("department = $%d", argPos))
		args = append(args, *filters.Department)
		argPos++
	}

	if filters.Branch != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("branch = $%d", argPos))
		args = append(args, *filters.Branch)
		argPos++
	}

	if filters.Search != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name LIKE $%d OR last_name LIKE $%d OR employee_id LIKE $%d OR email LIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+*filters.Search+"%")
		argPos++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY created_at DESC`, employeeColumns, whereSQL)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeeList := make([]Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employeeList = append(employeeList, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employeeList, nil
}
