package assets

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"assettrack/pkg/testhelpers"
)

func setupAssetTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping asset repository tests")
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	t.Cleanup(pool.Close)
	return pool
}

func countTransactions(t *testing.T, pool *pgxpool.Pool, assetID int64) int64 {
	t.Helper()
	var n int64
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM transactions WHERE asset_id = $1", assetID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestPostgresAssetRepository_CreateAsset(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)

	branch := "HQ"
	created, err := repo.CreateAsset(ctx, Asset{
		AssetID:       "AST-create-1",
		SerialNumber:  "SN-create-1",
		CategoryID:    categoryID,
		Make:          "Dell",
		Model:         "XPS 13",
		PurchasePrice: 1200,
		Branch:        &branch,
	})

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, StatusAvailable, created.Status)
	require.Nil(t, created.AssignedTo)
	require.Nil(t, created.AssignedDate)
	require.False(t, created.CreatedAt.IsZero())
}

func TestPostgresAssetRepository_CreateAsset_DuplicateSerial(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)

	_, err := repo.CreateAsset(ctx, Asset{AssetID: "AST-dup-1", SerialNumber: "SN-dup-1", CategoryID: categoryID})
	require.NoError(t, err)

	_, err = repo.CreateAsset(ctx, Asset{AssetID: "AST-dup-2", SerialNumber: "SN-dup-1", CategoryID: categoryID})
	require.ErrorIs(t, err, ErrDuplicateAsset)
}

func TestPostgresAssetRepository_IssueReturnRoundTrip(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	employeeID := testhelpers.CreateTestEmployee(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	issued, entry, err := repo.IssueAsset(ctx, assetID, employeeID, "project work")
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, issued.Status)
	require.NotNil(t, issued.AssignedTo)
	require.Equal(t, employeeID, *issued.AssignedTo)
	require.NotNil(t, issued.AssignedDate)
	require.Equal(t, TransactionIssue, entry.Type)
	require.Equal(t, employeeID, *entry.EmployeeID)
	require.Equal(t, "project work", entry.Remarks)

	returned, entry, err := repo.ReturnAsset(ctx, assetID, "done", "")
	require.NoError(t, err)
	require.Equal(t, StatusAvailable, returned.Status)
	require.Nil(t, returned.AssignedTo)
	require.Nil(t, returned.AssignedDate)
	require.Equal(t, TransactionReturn, entry.Type)
	// Ledger references the employee who held the asset before the clear.
	require.Equal(t, employeeID, *entry.EmployeeID)
	require.Equal(t, "done", entry.Reason)

	require.EqualValues(t, 2, countTransactions(t, pool, assetID))
}

func TestPostgresAssetRepository_IssueAsset_NotAvailable(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	employeeID := testhelpers.CreateTestEmployee(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	_, _, err := repo.IssueAsset(ctx, assetID, employeeID, "")
	require.NoError(t, err)

	// Second issue must fail the guard and add no ledger row.
	_, _, err = repo.IssueAsset(ctx, assetID, employeeID, "")
	require.ErrorIs(t, err, ErrAssetNotAvailable)
	require.EqualValues(t, 1, countTransactions(t, pool, assetID))

	detail, err := repo.GetAssetByID(ctx, assetID)
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, detail.Status)
}

func TestPostgresAssetRepository_IssueAsset_MissingAsset(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	employeeID := testhelpers.CreateTestEmployee(t, pool)

	_, _, err := repo.IssueAsset(ctx, 999999999, employeeID, "")
	require.ErrorIs(t, err, ErrAssetNotAvailable)
}

func TestPostgresAssetRepository_ReturnAsset_NotAssigned(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	_, _, err := repo.ReturnAsset(ctx, assetID, "done", "")
	require.ErrorIs(t, err, ErrAssetNotAssigned)
	require.EqualValues(t, 0, countTransactions(t, pool, assetID))
}

func TestPostgresAssetRepository_ScrapAsset_ClearsAssignment(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	employeeID := testhelpers.CreateTestEmployee(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	_, _, err := repo.IssueAsset(ctx, assetID, employeeID, "")
	require.NoError(t, err)

	scrapped, entry, err := repo.ScrapAsset(ctx, assetID, "damaged", "")
	require.NoError(t, err)
	require.Equal(t, StatusScrapped, scrapped.Status)
	require.Nil(t, scrapped.AssignedTo)
	require.Equal(t, TransactionScrap, entry.Type)
	require.Equal(t, employeeID, *entry.EmployeeID)
}

func TestPostgresAssetRepository_ScrapAsset_TwiceAppendsTwice(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	_, first, err := repo.ScrapAsset(ctx, assetID, "damaged", "")
	require.NoError(t, err)
	require.Nil(t, first.EmployeeID)

	// The guard is existence only, so a second scrap succeeds and appends
	// another ledger row.
	_, _, err = repo.ScrapAsset(ctx, assetID, "damaged again", "")
	require.NoError(t, err)
	require.EqualValues(t, 2, countTransactions(t, pool, assetID))
}

func TestPostgresAssetRepository_ScrapAsset_Missing(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()

	_, _, err := repo.ScrapAsset(ctx, 999999999, "damaged", "")
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestPostgresAssetRepository_ConcurrentIssue_OneWins(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	employeeA := testhelpers.CreateTestEmployee(t, pool)
	employeeB := testhelpers.CreateTestEmployee(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, employeeID := range []int64{employeeA, employeeB} {
		wg.Add(1)
		go func(i int, employeeID int64) {
			defer wg.Done()
			_, _, errs[i] = repo.IssueAsset(ctx, assetID, employeeID, "")
		}(i, employeeID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrAssetNotAvailable)
		}
	}
	require.Equal(t, 1, succeeded)
	require.EqualValues(t, 1, countTransactions(t, pool, assetID))
}

func TestPostgresAssetRepository_UpdateAsset_Patch(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	newMake := "Lenovo"
	newStatus := StatusRepair
	updated, err := repo.UpdateAsset(ctx, assetID, AssetPatch{Make: &newMake, Status: &newStatus})

	require.NoError(t, err)
	require.Equal(t, "Lenovo", updated.Make)
	require.Equal(t, StatusRepair, updated.Status)

	// No ledger row for administrative updates.
	require.EqualValues(t, 0, countTransactions(t, pool, assetID))
}

func TestPostgresAssetRepository_UpdateAsset_NotFound(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()

	newMake := "Lenovo"
	_, err := repo.UpdateAsset(ctx, 999999999, AssetPatch{Make: &newMake})
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestPostgresAssetRepository_ListAssets_WithFilters(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	branch := "filter-branch"

	a1 := testhelpers.CreateTestAsset(t, pool, categoryID, branch, 100)
	a2 := testhelpers.CreateTestAsset(t, pool, categoryID, branch, 200)
	employeeID := testhelpers.CreateTestEmployee(t, pool)
	_, _, err := repo.IssueAsset(ctx, a2, employeeID, "")
	require.NoError(t, err)

	status := StatusAvailable
	items, err := repo.ListAssets(ctx, AssetFilters{Status: &status, Branch: &branch, CategoryID: &categoryID})

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, a1, items[0].ID)
	require.NotEmpty(t, items[0].CategoryName)
}

func TestPostgresAssetRepository_StockSummary(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	branch := "stock-branch"

	testhelpers.CreateTestAsset(t, pool, categoryID, branch, 100)
	testhelpers.CreateTestAsset(t, pool, categoryID, branch, 250.50)

	stock, err := repo.StockSummary(ctx)
	require.NoError(t, err)

	var row *StockRow
	for i := range stock {
		if stock[i].Branch == branch && stock[i].CategoryID == categoryID {
			row = &stock[i]
			break
		}
	}
	require.NotNil(t, row)
	require.EqualValues(t, 2, row.Count)
	require.InDelta(t, 350.50, row.TotalValue, 0.001)
}

func TestPostgresAssetRepository_GetAssetHistory_Order(t *testing.T) {
	pool := setupAssetTestPool(t)

	repo := NewPostgresAssetRepository(pool)
	ctx := context.Background()
	categoryID := testhelpers.CreateTestCategory(t, pool)
	employeeID := testhelpers.CreateTestEmployee(t, pool)
	assetID := testhelpers.CreateTestAsset(t, pool, categoryID, "HQ", 1000)

	_, _, err := repo.IssueAsset(ctx, assetID, employeeID, "")
	require.NoError(t, err)
	_, _, err = repo.ReturnAsset(ctx, assetID, "done", "")
	require.NoError(t, err)

	history, err := repo.GetAssetHistory(ctx, assetID)
	require.NoError(t, err)
	require.Len(t, history.Transactions, 2)
	// Newest first.
	require.Equal(t, TransactionReturn, history.Transactions[0].Type)
	require.Equal(t, TransactionIssue, history.Transactions[1].Type)
	require.NotNil(t, history.Transactions[0].EmployeeName)
}
