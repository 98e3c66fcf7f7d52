package testhelpers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// CreateTestCategory inserts an active category and returns its ID.
func CreateTestCategory(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()

	ctx := context.Background()
	name := fmt.Sprintf("test-category-%d", nextSuffix())

	var id int64
	err := db.QueryRow(ctx, "INSERT INTO categories (name, status) VALUES ($1, 'active') RETURNING id", name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestEmployee inserts an active employee and returns its ID.
func CreateTestEmployee(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	code := fmt.Sprintf("EMP-%d", suffix)
	email := fmt.Sprintf("test-employee-%d@example.com", suffix)

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO employees (employee_id, first_name, last_name, email, status) VALUES ($1, 'Test', 'Employee', $2, 'active') RETURNING id",
		code, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestAsset inserts an available asset in the given category and branch
// and returns its ID.
func CreateTestAsset(t *testing.T, db *pgxpool.Pool, categoryID int64, branch string, price float64) int64 {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	tag := fmt.Sprintf("AST-%d", suffix)
	serial := fmt.Sprintf("SN-%d", suffix)

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO assets (asset_id, serial_number, category_id, branch, purchase_price, status) VALUES ($1, $2, $3, $4, $5, 'available') RETURNING id",
		tag, serial, categoryID, branch, price).Scan(&id)
	require.NoError(t, err)
	return id
}
