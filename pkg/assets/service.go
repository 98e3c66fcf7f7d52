package assets

import (
	"context"
	"log"
	"time"
)

// Broadcaster pushes committed ledger entries to feed subscribers.
type Broadcaster interface {
	Broadcast(event any)
}

// Notifier emails the affected employee after an issue or return.
type Notifier interface {
	AssetIssued(toEmail, employeeName, assetTag string) error
	AssetReturned(toEmail, employeeName, assetTag string) error
}

// EmployeeDirectory is the slice of the employee store the service needs to
// address notifications.
type EmployeeDirectory interface {
	GetEmployeeContact(ctx context.Context, id int64) (name, email string, err error)
}

type AssetService interface {
	CreateAsset(ctx context.Context, input Asset) (Asset, error)
	UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (Asset, error)
	GetAssetByID(ctx context.Context, id int64) (AssetDetail, error)
	ListAssets(ctx context.Context, filters AssetFilters) ([]AssetDetail, error)
	StockSummary(ctx context.Context) ([]StockRow, error)
	GetAssetHistory(ctx context.Context, id int64) (AssetHistory, error)
	IssueAsset(ctx context.Context, id, employeeID int64, remarks string) (Asset, error)
	ReturnAsset(ctx context.Context, id int64, reason, remarks string) (Asset, error)
	ScrapAsset(ctx context.Context, id int64, reason, remarks string) (Asset, error)
}

type assetService struct {
	repo      AssetRepository
	directory EmployeeDirectory
	feed      Broadcaster
	notifier  Notifier
}

// NewAssetService wires the repository with the optional feed and notifier.
// Either may be nil; delivery of both is best-effort and never fails the
// triggering operation.
func NewAssetService(repo AssetRepository, directory EmployeeDirectory, feed Broadcaster, notifier Notifier) AssetService {
	return &assetService{repo: repo, directory: directory, feed: feed, notifier: notifier}
}

func (s *assetService) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	return s.repo.CreateAsset(ctx, input)
}

func (s *assetService) UpdateAsset(ctx context.Context, id int64, patch AssetPatch) (Asset, error) {
	return s.repo.UpdateAsset(ctx, id, patch)
}

func (s *assetService) GetAssetByID(ctx context.Context, id int64) (AssetDetail, error) {
	return s.repo.GetAssetByID(ctx, id)
}

func (s *assetService) ListAssets(ctx context.Context, filters AssetFilters) ([]AssetDetail, error) {
	return s.repo.ListAssets(ctx, filters)
}

func (s *assetService) StockSummary(ctx context.Context) ([]StockRow, error) {
	return s.repo.StockSummary(ctx)
}

func (s *assetService) GetAssetHistory(ctx context.Context, id int64) (AssetHistory, error) {
	return s.repo.GetAssetHistory(ctx, id)
}

func (s *assetService) IssueAsset(ctx context.Context, id, employeeID int64, remarks string) (Asset, error) {
	asset, entry, err := s.repo.IssueAsset(ctx, id, employeeID, remarks)
	if err != nil {
		return Asset{}, err
	}

	s.publish(entry)
	s.notify(entry, asset)
	return asset, nil
}

func (s *assetService) ReturnAsset(ctx context.Context, id int64, reason, remarks string) (Asset, error) {
	asset, entry, err := s.repo.ReturnAsset(ctx, id, reason, remarks)
	if err != nil {
		return Asset{}, err
	}

	s.publish(entry)
	s.notify(entry, asset)
	return asset, nil
}

func (s *assetService) ScrapAsset(ctx context.Context, id int64, reason, remarks string) (Asset, error) {
	asset, entry, err := s.repo.ScrapAsset(ctx, id, reason, remarks)
	if err != nil {
		return Asset{}, err
	}

	s.publish(entry)
	return asset, nil
}

func (s *assetService) publish(entry Transaction) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(TransactionEvent{Event: "transaction", Transaction: entry})
}

// notify emails the employee on the ledger entry. Runs detached from the
// request: the operation is already committed and must not be failed or
// delayed by the mail provider.
func (s *assetService) notify(entry Transaction, asset Asset) {
	if s.notifier == nil || s.directory == nil || entry.EmployeeID == nil {
		return
	}

	employeeID := *entry.EmployeeID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		name, email, err := s.directory.GetEmployeeContact(ctx, employeeID)
		if err != nil {
			log.Printf("notify: employee %d lookup failed: %v", employeeID, err)
			return
		}

		switch entry.Type {
		case TransactionIssue:
			err = s.notifier.AssetIssued(email, name, asset.AssetID)
		case TransactionReturn:
			err = s.notifier.AssetReturned(email, name, asset.AssetID)
		default:
			return
		}
		if err != nil {
			log.Printf("notify: %s email for asset %s failed: %v", entry.Type, asset.AssetID, err)
		}
	}()
}
