package ports

import (
	"context"

	"github.com/wifight/wifight/internal/domain"
)

// CreatePaymentResult is what a gateway hands back after initiating a
// payment. ClientSecret (card flows) and ApproveURL (redirect flows) are
// provider-specific; at most one is set.
type CreatePaymentResult struct {
	ProviderID   string
	ClientSecret string
	ApproveURL   string
}

// PaymentResult is a gateway's view of a payment's current state.
type PaymentResult struct {
	Status string
	Paid   bool
}

// PaymentGateway is the generic create/verify/refund contract. Wire details
// of individual providers stay behind this interface.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*CreatePaymentResult, error)
	VerifyPayment(ctx context.Context, providerID string) (*PaymentResult, error)
	RefundPayment(ctx context.Context, providerID string) error
}

type PaymentService interface {
	// Create initiates a payment for one plan purchase and records it pending.
	Create(ctx context.Context, planID string, method domain.PaymentMethod, currency, email, phone string) (*domain.Payment, *CreatePaymentResult, error)
	// Complete verifies the payment with the gateway and, on success, issues
	// exactly one voucher for the paid plan. Idempotent per provider id.
	Complete(ctx context.Context, providerID string) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID string) (*domain.Payment, error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
}
