package employees

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID          int64      `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Department  string     `json:"department"`
	Designation string     `json:"designation"`
	Branch      string     `json:"branch"`
	Status      string     `json:"status"`
	JoiningDate *time.Time `json:"joining_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HeldAsset is an asset currently assigned to an employee, shown on the
// employee detail view.
type HeldAsset struct {
	ID           int64      `json:"id"`
	AssetID      string     `json:"asset_id"`
	SerialNumber string     `json:"serial_number"`
	CategoryName string     `json:"category_name"`
	Make         string     `json:"make"`
	Model        string     `json:"model"`
	AssignedDate *time.Time `json:"assigned_date"`
}

type EmployeeDetail struct {
	Employee
	AssignedAssets []HeldAsset `json:"assigned_assets"`
}

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
