package domain

import (
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan is a tariff definition referenced by vouchers and sessions.
type Plan struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	DurationHours int        `json:"duration_hours"`
	DataLimitMB   int        `json:"data_limit_mb"`
	BandwidthUp   int        `json:"bandwidth_up"`   // Kbps, 0 = unlimited
	BandwidthDown int        `json:"bandwidth_down"` // Kbps, 0 = unlimited
	ValidityDays  int        `json:"validity_days"`
	Status        PlanStatus `json:"status" gorm:"index"`
	LocationID    string     `json:"location_id,omitempty" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Free reports whether the plan grants access at no charge.
func (p *Plan) Free() bool {
	return p.Price == 0
}

type Location struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
