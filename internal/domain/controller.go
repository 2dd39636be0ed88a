package domain

import (
	"time"
)

type ControllerStatus string

const (
	ControllerStatusActive ControllerStatus = "active"
	ControllerStatusError  ControllerStatus = "error"
)

// Controller is a network controller that grants or denies device traffic.
// Password is stored encoded through a CredentialCodec because the
// controller's login API needs it back in plaintext.
type Controller struct {
	ID         string           `json:"id" gorm:"primaryKey"`
	Name       string           `json:"name"`
	IPAddress  string           `json:"ip_address"`
	Port       int              `json:"port"`
	Username   string           `json:"username"`
	Password   string           `json:"-"`
	SiteID     string           `json:"site_id"`
	OmadacID   string           `json:"omadac_id,omitempty"`
	LocationID string           `json:"location_id,omitempty" gorm:"index"`
	Status     ControllerStatus `json:"status" gorm:"index"`
	Version    string           `json:"version,omitempty"`
	LastSync   *time.Time       `json:"last_sync,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ConnectionTest is the outcome of probing a controller's API with the
// stored credentials. It never touches client authorization state.
type ConnectionTest struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}
