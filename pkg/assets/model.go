package assets

import "time"

const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
	StatusRepair    = "repair"
	StatusScrapped  = "scrapped"
)

const (
	TransactionIssue  = "issue"
	TransactionReturn = "return"
	TransactionScrap  = "scrap"
)

type Asset struct {
	ID            int64      `json:"id"`
	AssetID       string     `json:"asset_id"`
	SerialNumber  string     `json:"serial_number"`
	CategoryID    int64      `json:"category_id"`
	Make          string     `json:"make"`
	Model         string     `json:"model"`
	Description   string     `json:"description"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice float64    `json:"purchase_price"`
	Branch        *string    `json:"branch"`
	Status        string     `json:"status"`
	AssignedTo    *int64     `json:"assigned_to"`
	AssignedDate  *time.Time `json:"assigned_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CanIssue reports whether the asset may be handed to an employee.
func (a Asset) CanIssue() bool { return a.Status == StatusAvailable }

// CanReturn reports whether the asset may be taken back.
func (a Asset) CanReturn() bool { return a.Status == StatusAssigned }

func IsValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusAssigned, StatusRepair, StatusScrapped:
		return true
	default:
		return false
	}
}

// AssetDetail is an asset joined with its category and, when assigned,
// the holding employee's name.
type AssetDetail struct {
	Asset
	CategoryName     string  `json:"category_name"`
	AssignedEmployee *string `json:"assigned_employee,omitempty"`
}

// AssetPatch enumerates the fields the administrative update may overwrite.
// It deliberately bypasses the issue/return/scrap guards: status and
// assignment are directly settable and no ledger entry is written.
// AssignedTo of 0 clears the assignment; an empty Branch clears the branch.
type AssetPatch struct {
	AssetID       *string    `json:"asset_id"`
	SerialNumber  *string    `json:"serial_number"`
	CategoryID    *int64     `json:"category_id"`
	Make          *string    `json:"make"`
	Model         *string    `json:"model"`
	Description   *string    `json:"description"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price"`
	Branch        *string    `json:"branch"`
	Status        *string    `json:"status"`
	AssignedTo    *int64     `json:"assigned_to"`
	AssignedDate  *time.Time `json:"assigned_date"`
}

// Transaction is one immutable ledger entry. EmployeeID is nullable: a scrap
// of an unassigned asset has no actor, and employees may be deleted later.
type Transaction struct {
	ID              int64     `json:"id"`
	AssetID         int64     `json:"asset_id"`
	EmployeeID      *int64    `json:"employee_id"`
	Type            string    `json:"type"`
	TransactionDate time.Time `json:"transaction_date"`
	Reason          string    `json:"reason"`
	Remarks         string    `json:"remarks"`
}

type TransactionDetail struct {
	Transaction
	EmployeeName *string `json:"employee_name,omitempty"`
}

type AssetHistory struct {
	Asset        AssetDetail         `json:"asset"`
	Transactions []TransactionDetail `json:"transactions"`
}

// StockRow is one (branch, category) group of available assets.
type StockRow struct {
	Branch       string  `json:"branch"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Count        int64   `json:"count"`
	TotalValue   float64 `json:"total_value"`
}

// TransactionEvent is the payload broadcast on the websocket feed for every
// committed ledger entry.
type TransactionEvent struct {
	Event       string      `json:"event"`
	Transaction Transaction `json:"transaction"`
}
