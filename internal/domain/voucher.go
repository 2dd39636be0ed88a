package domain

import (
	"time"
)

type VoucherStatus string

const (
	VoucherStatusUnused  VoucherStatus = "unused"
	VoucherStatusUsed    VoucherStatus = "used"
	VoucherStatusExpired VoucherStatus = "expired"
)

// Voucher is a single-use access code. Price, duration and data limit are
// snapshots of the plan at generation time so later plan edits do not alter
// vouchers already sold.
type Voucher struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	Code          string        `json:"code" gorm:"uniqueIndex"`
	PlanID        string        `json:"plan_id" gorm:"index"`
	BatchID       string        `json:"batch_id" gorm:"index"`
	Status        VoucherStatus `json:"status" gorm:"index"`
	Price         float64       `json:"price"`
	DurationHours int           `json:"duration_hours"`
	DataLimitMB   int           `json:"data_limit_mb"`
	ExpiresAt     time.Time     `json:"expires_at"`
	UsedAt        *time.Time    `json:"used_at,omitempty"`
	UsedBy        string        `json:"used_by,omitempty"` // MAC of the redeeming device
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// VoucherBatch groups the vouchers created by one generation call.
type VoucherBatch struct {
	BatchID   string    `json:"batch_id"`
	BatchName string    `json:"batch_name"`
	Vouchers  []Voucher `json:"vouchers"`
}

type VoucherStats struct {
	Total        int64   `json:"total"`
	Unused       int64   `json:"unused"`
	Used         int64   `json:"used"`
	Expired      int64   `json:"expired"`
	TotalRevenue float64 `json:"total_revenue"`
}
