package assets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAssetRepository struct {
	mock.Mock
}

func (m *mockAssetRepository) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	args := m.Called(ctx, input)
	asset, _ := args.Get(0).(Asset)
	return asset, args.Error(1)
}

func (m *mockAssetRepository) UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (Asset, error) {
	args := m.Called(ctx, id, patch)
	asset, _ := args.Get(0).(Asset)
	return asset, args.Error(1)
}

func (m *mockAssetRepository) GetAssetByID(ctx context.Context, id int64) (AssetDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(AssetDetail)
	return detail, args.Error(1)
}

func (m *mockAssetRepository) ListAssets(ctx context.Context, filters AssetFilters) ([]AssetDetail, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).([]AssetDetail)
	return list, args.Error(1)
}

func (m *mockAssetRepository) StockSummary(ctx context.Context) ([]StockRow, error) {
	args := m.Called(ctx)
	stock, _ := args.Get(0).([]StockRow)
	return stock, args.Error(1)
}

func (m *mockAssetRepository) GetAssetHistory(ctx context.Context, id int64) (AssetHistory, error) {
	args := m.Called(ctx, id)
	history, _ := args.Get(0).(AssetHistory)
	return history, args.Error(1)
}

func (m *mockAssetRepository) IssueAsset(ctx context.Context, id, employeeID int64, remarks string) (Asset, Transaction, error) {
	args := m.Called(ctx, id, employeeID, remarks)
	asset, _ := args.Get(0).(Asset)
	entry, _ := args.Get(1).(Transaction)
	return asset, entry, args.Error(2)
}

func (m *mockAssetRepository) ReturnAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error) {
	args := m.Called(ctx, id, reason, remarks)
	asset, _ := args.Get(0).(Asset)
	entry, _ := args.Get(1).(Transaction)
	return asset, entry, args.Error(2)
}

func (m *mockAssetRepository) ScrapAsset(ctx context.Context, id int64, reason, remarks string) (Asset, Transaction, error) {
	args := m.Called(ctx, id, reason, remarks)
	asset, _ := args.Get(0).(Asset)
	entry, _ := args.Get(1).(Transaction)
	return asset, entry, args.Error(2)
}

type captureBroadcaster struct {
	events chan any
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{events: make(chan any, 8)}
}

func (b *captureBroadcaster) Broadcast(event any) {
	b.events <- event
}

func TestAssetService_CreateAsset_Delegates(t *testing.T) {
	repo := new(mockAssetRepository)
	service := NewAssetService(repo, nil, nil, nil)

	expected := Asset{ID: 1, AssetID: "AST-001", Status: StatusAvailable}
	repo.On("CreateAsset", mock.Anything, mock.Anything).Return(expected, nil)

	got, err := service.CreateAsset(context.Background(), Asset{AssetID: "AST-001"})

	require.NoError(t, err)
	require.Equal(t, expected, got)
	repo.AssertExpectations(t)
}

func TestAssetService_IssueAsset_PublishesEvent(t *testing.T) {
	repo := new(mockAssetRepository)
	feed := newCaptureBroadcaster()
	service := NewAssetService(repo, nil, feed, nil)

	employeeID := int64(7)
	asset := Asset{ID: 1, AssetID: "AST-001", Status: StatusAssigned, AssignedTo: &employeeID}
	entry := Transaction{ID: 10, AssetID: 1, EmployeeID: &employeeID, Type: TransactionIssue}
	repo.On("IssueAsset", mock.Anything, int64(1), int64(7), "for project").Return(asset, entry, nil)

	got, err := service.IssueAsset(context.Background(), 1, 7, "for project")

	require.NoError(t, err)
	require.Equal(t, StatusAssigned, got.Status)

	select {
	case raw := <-feed.events:
		event, ok := raw.(TransactionEvent)
		require.True(t, ok)
		require.Equal(t, "transaction", event.Event)
		require.Equal(t, TransactionIssue, event.Transaction.Type)
		require.EqualValues(t, 10, event.Transaction.ID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	repo.AssertExpectations(t)
}

func TestAssetService_IssueAsset_ConflictPublishesNothing(t *testing.T) {
	repo := new(mockAssetRepository)
	feed := newCaptureBroadcaster()
	service := NewAssetService(repo, nil, feed, nil)

	repo.On("IssueAsset", mock.Anything, int64(1), int64(7), "").Return(Asset{}, Transaction{}, ErrAssetNotAvailable)

	_, err := service.IssueAsset(context.Background(), 1, 7, "")

	require.ErrorIs(t, err, ErrAssetNotAvailable)
	require.Empty(t, feed.events)
	repo.AssertExpectations(t)
}

func TestAssetService_ReturnAsset_PublishesEvent(t *testing.T) {
	repo := new(mockAssetRepository)
	feed := newCaptureBroadcaster()
	service := NewAssetService(repo, nil, feed, nil)

	holder := int64(7)
	asset := Asset{ID: 1, AssetID: "AST-001", Status: StatusAvailable}
	entry := Transaction{ID: 11, AssetID: 1, EmployeeID: &holder, Type: TransactionReturn, Reason: "done"}
	repo.On("ReturnAsset", mock.Anything, int64(1), "done", "").Return(asset, entry, nil)

	got, err := service.ReturnAsset(context.Background(), 1, "done", "")

	require.NoError(t, err)
	require.Equal(t, StatusAvailable, got.Status)
	require.Nil(t, got.AssignedTo)

	select {
	case raw := <-feed.events:
		event := raw.(TransactionEvent)
		require.Equal(t, TransactionReturn, event.Transaction.Type)
		require.Equal(t, &holder, event.Transaction.EmployeeID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	repo.AssertExpectations(t)
}

func TestAssetService_ScrapAsset_Delegates(t *testing.T) {
	repo := new(mockAssetRepository)
	service := NewAssetService(repo, nil, nil, nil)

	asset := Asset{ID: 1, Status: StatusScrapped}
	entry := Transaction{ID: 12, AssetID: 1, Type: TransactionScrap, Reason: "damaged"}
	repo.On("ScrapAsset", mock.Anything, int64(1), "damaged", "beyond repair").Return(asset, entry, nil)

	got, err := service.ScrapAsset(context.Background(), 1, "damaged", "beyond repair")

	require.NoError(t, err)
	require.Equal(t, StatusScrapped, got.Status)
	repo.AssertExpectations(t)
}

func TestAssetService_ListAssets_Delegates(t *testing.T) {
	repo := new(mockAssetRepository)
	service := NewAssetService(repo, nil, nil, nil)

	status := StatusAvailable
	filters := AssetFilters{Status: &status}
	repo.On("ListAssets", mock.Anything, filters).Return([]AssetDetail{}, nil)

	_, err := service.ListAssets(context.Background(), filters)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
