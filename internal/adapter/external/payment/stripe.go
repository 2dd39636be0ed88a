package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/wifight/wifight/internal/ports"
)

type StripeGateway struct {
	apiKey string
	log    *zap.Logger
}

func NewStripeGateway(apiKey string, log *zap.Logger) ports.PaymentGateway {
	stripe.Key = apiKey
	return &StripeGateway{
		apiKey: apiKey,
		log:    log,
	}
}

func (s *StripeGateway) CreatePayment(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*ports.CreatePaymentResult, error) {
	if amount <= 0 {
		return nil, errors.New("invalid amount")
	}

	s.log.Info("Creating payment intent",
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(amount * 100)),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		s.log.Error("Failed to create payment intent", zap.Error(err))
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	s.log.Info("Payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
	)

	return &ports.CreatePaymentResult{
		ProviderID:   pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (s *StripeGateway) VerifyPayment(ctx context.Context, providerID string) (*ports.PaymentResult, error) {
	if providerID == "" {
		return nil, errors.New("provider ID is required")
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(providerID, params)
	if err != nil {
		s.log.Error("Failed to retrieve payment intent", zap.String("provider_id", providerID), zap.Error(err))
		return nil, fmt.Errorf("stripe: retrieve payment intent: %w", err)
	}

	return &ports.PaymentResult{
		Status: string(pi.Status),
		Paid:   pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

func (s *StripeGateway) RefundPayment(ctx context.Context, providerID string) error {
	if providerID == "" {
		return errors.New("provider ID is required")
	}

	s.log.Info("Refunding payment", zap.String("provider_id", providerID))

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(providerID),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		s.log.Error("Failed to refund payment", zap.String("provider_id", providerID), zap.Error(err))
		return fmt.Errorf("stripe: refund payment: %w", err)
	}

	s.log.Info("Payment refunded",
		zap.String("refund_id", r.ID),
		zap.String("status", string(r.Status)),
	)

	return nil
}
