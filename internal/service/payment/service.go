package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/adapter/queue"
	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type Service struct {
	payments ports.PaymentRepository
	plans    ports.PlanRepository
	vouchers ports.VoucherService
	gateway  ports.PaymentGateway
	queue    queue.MessageQueue
	log      *zap.Logger
}

func NewService(
	payments ports.PaymentRepository,
	plans ports.PlanRepository,
	vouchers ports.VoucherService,
	gateway ports.PaymentGateway,
	q queue.MessageQueue,
	log *zap.Logger,
) ports.PaymentService {
	return &Service{
		payments: payments,
		plans:    plans,
		vouchers: vouchers,
		gateway:  gateway,
		queue:    q,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, planID string, method domain.PaymentMethod, currency, email, phone string) (*domain.Payment, *ports.CreatePaymentResult, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, domain.ErrPlanNotFound
	}
	if plan.Free() {
		return nil, nil, fmt.Errorf("%w: plan %s is free of charge", domain.ErrInvalidInput, planID)
	}

	description := fmt.Sprintf("WiFi plan: %s", plan.Name)
	result, err := s.gateway.CreatePayment(ctx, plan.Price, currency, description, map[string]string{
		"plan_id": plan.ID,
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		PlanID:        plan.ID,
		Method:        method,
		ProviderID:    result.ProviderID,
		Status:        domain.PaymentStatusPending,
		Amount:        plan.Price,
		Currency:      currency,
		Description:   description,
		CustomerEmail: email,
		CustomerPhone: phone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, nil, err
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("provider_id", result.ProviderID),
		zap.String("plan_id", plan.ID),
	)
	return payment, result, nil
}

// Complete verifies the payment with the gateway and issues exactly one
// voucher for the paid plan. Safe to call repeatedly or concurrently for
// the same provider id: a conditional status flip picks a single winner,
// everyone else gets the already-completed payment back.
func (s *Service) Complete(ctx context.Context, providerID string) (*domain.Payment, error) {
	payment, err := s.payments.FindByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	if payment.Status == domain.PaymentStatusCompleted {
		return payment, nil
	}
	if payment.Status == domain.PaymentStatusRefunded {
		return nil, fmt.Errorf("%w: payment was refunded", domain.ErrInvalidInput)
	}

	result, err := s.gateway.VerifyPayment(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !result.Paid {
		return nil, fmt.Errorf("%w: gateway status %q", domain.ErrPaymentNotCompleted, result.Status)
	}

	// Conditional pending -> completed flip decides duplicate callbacks:
	// only the winner mints a voucher, losers return the settled row.
	now := time.Now()
	won, err := s.payments.MarkCompleted(ctx, providerID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		settled, err := s.payments.FindByProviderID(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if settled == nil {
			return nil, domain.ErrPaymentNotFound
		}
		return settled, nil
	}

	batch, err := s.vouchers.Generate(ctx, nil, payment.PlanID, 1, "payment_"+payment.ID)
	if err != nil {
		return nil, err
	}
	voucher := batch.Vouchers[0]

	payment.Status = domain.PaymentStatusCompleted
	payment.VoucherID = &voucher.ID
	payment.CompletedAt = &now
	payment.UpdatedAt = now
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publish("payment.completed", map[string]interface{}{
		"payment_id":  payment.ID,
		"provider_id": providerID,
		"plan_id":     payment.PlanID,
		"voucher_id":  voucher.ID,
		"amount":      payment.Amount,
	})

	s.log.Info("Payment completed, voucher issued",
		zap.String("payment_id", payment.ID),
		zap.String("voucher_id", voucher.ID),
	)
	return payment, nil
}

func (s *Service) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: only completed payments can be refunded", domain.ErrInvalidInput)
	}

	if err := s.gateway.RefundPayment(ctx, payment.ProviderID); err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.UpdatedAt = time.Now()
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("Payment refunded", zap.String("payment_id", paymentID))
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Service) publish(subject string, payload map[string]interface{}) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.queue.Publish(subject, data); err != nil {
		s.log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
