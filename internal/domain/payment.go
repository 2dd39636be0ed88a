package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodMpesa  PaymentMethod = "mpesa"
)

// Payment records one purchase of a plan. A completed payment entitles the
// customer to exactly one voucher for that plan; VoucherID is set when it is
// issued.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	PlanID        string        `json:"plan_id" gorm:"index"`
	VoucherID     *string       `json:"voucher_id,omitempty"`
	Method        PaymentMethod `json:"method"`
	ProviderID    string        `json:"provider_id" gorm:"uniqueIndex"` // gateway-side payment id
	Status        PaymentStatus `json:"status" gorm:"index"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Description   string        `json:"description,omitempty"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Metadata      JSONMap       `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// JSONMap is a helper type for JSONB columns
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	return json.Unmarshal(data, m)
}
