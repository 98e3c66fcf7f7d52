package categories

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
