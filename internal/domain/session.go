package domain

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusTerminated SessionStatus = "terminated"
	SessionStatusExpired    SessionStatus = "expired"
)

// Session is one device's access window on one controller. Exactly one of
// PlanID/VoucherID is the access path; both may be populated for traceability
// on voucher-redeemed sessions.
type Session struct {
	ID              string        `json:"id" gorm:"primaryKey"`
	ControllerID    string        `json:"controller_id" gorm:"index"`
	MACAddress      string        `json:"mac_address" gorm:"column:mac_address;index"`
	IPAddress       string        `json:"ip_address"`
	Username        string        `json:"username,omitempty"`
	PlanID          *string       `json:"plan_id,omitempty" gorm:"index"`
	VoucherID       *string       `json:"voucher_id,omitempty" gorm:"index"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	DataUsedMB      float64       `json:"data_used_mb"`
	Status          SessionStatus `json:"status" gorm:"index"`
	DeviceInfo      JSONMap       `json:"device_info,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type SessionStats struct {
	TotalSessions        int64   `json:"total_sessions"`
	ActiveSessions       int64   `json:"active_sessions"`
	TotalDataUsedMB      float64 `json:"total_data_used_mb"`
	AvgDurationMinutes   float64 `json:"avg_duration_minutes"`
	TotalDurationMinutes int64   `json:"total_duration_minutes"`
}
