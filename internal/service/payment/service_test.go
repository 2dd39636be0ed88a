package payment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/mocks"
	"github.com/wifight/wifight/internal/ports"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

type fixture struct {
	payments *mocks.MockPaymentRepository
	plans    *mocks.MockPlanRepository
	vouchers *mocks.MockVoucherService
	gateway  *mocks.MockPaymentGateway
	queue    *mocks.MockMessageQueue
	svc      ports.PaymentService
}

func newFixture() *fixture {
	f := &fixture{
		payments: &mocks.MockPaymentRepository{},
		plans: &mocks.MockPlanRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
				return &domain.Plan{ID: id, Name: "Day Pass", Price: 5, Status: domain.PlanStatusActive}, nil
			},
		},
		vouchers: &mocks.MockVoucherService{},
		gateway:  &mocks.MockPaymentGateway{},
		queue:    mocks.NewMockMessageQueue(),
	}
	f.svc = NewService(f.payments, f.plans, f.vouchers, f.gateway, f.queue, newTestLogger())
	return f
}

func TestCreateRecordsPendingPayment(t *testing.T) {
	f := newFixture()

	var saved *domain.Payment
	f.payments.SaveFunc = func(ctx context.Context, p *domain.Payment) error {
		saved = p
		return nil
	}
	f.gateway.CreatePaymentFunc = func(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*ports.CreatePaymentResult, error) {
		if amount != 5 {
			t.Errorf("Expected plan price 5, got %v", amount)
		}
		return &ports.CreatePaymentResult{ProviderID: "pi_123", ClientSecret: "cs_123"}, nil
	}

	payment, result, err := f.svc.Create(context.Background(), "plan-1", domain.PaymentMethodStripe, "usd", "guest@example.com", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("Expected pending, got %s", payment.Status)
	}
	if saved == nil || saved.ProviderID != "pi_123" {
		t.Error("Expected payment persisted with provider id")
	}
	if result.ClientSecret != "cs_123" {
		t.Error("Expected gateway result passed through")
	}
}

func TestCreateRejectsFreePlan(t *testing.T) {
	f := newFixture()
	f.plans.FindByIDFunc = func(ctx context.Context, id string) (*domain.Plan, error) {
		return &domain.Plan{ID: id, Price: 0}, nil
	}

	_, _, err := f.svc.Create(context.Background(), "free", domain.PaymentMethodStripe, "usd", "", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCompleteIssuesSingleVoucher(t *testing.T) {
	f := newFixture()

	f.payments.FindByProviderIDFunc = func(ctx context.Context, providerID string) (*domain.Payment, error) {
		return &domain.Payment{
			ID:         "pay-1",
			PlanID:     "plan-1",
			ProviderID: providerID,
			Status:     domain.PaymentStatusPending,
		}, nil
	}

	var generatedQty int
	var actor *domain.User
	f.vouchers.GenerateFunc = func(ctx context.Context, a *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
		actor = a
		generatedQty = quantity
		return &domain.VoucherBatch{
			BatchID:  "batch-1",
			Vouchers: []domain.Voucher{{ID: "v1", Code: "AAAA-BBBB-CCCC"}},
		}, nil
	}

	var saved *domain.Payment
	f.payments.SaveFunc = func(ctx context.Context, p *domain.Payment) error {
		saved = p
		return nil
	}

	payment, err := f.svc.Complete(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if generatedQty != 1 {
		t.Errorf("Expected exactly 1 voucher, got %d", generatedQty)
	}
	if actor != nil {
		t.Error("Expected system actor (nil) for payment-issued vouchers")
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("Expected completed, got %s", payment.Status)
	}
	if payment.VoucherID == nil || *payment.VoucherID != "v1" {
		t.Error("Expected voucher linked to payment")
	}
	if saved == nil || saved.CompletedAt == nil {
		t.Error("Expected completion timestamp persisted")
	}
	if len(f.queue.GetPublishedMessages("payment.completed")) != 1 {
		t.Error("Expected a payment.completed event")
	}
}

func TestCompleteConcurrentCallbacksMintOneVoucher(t *testing.T) {
	f := newFixture()

	var mu sync.Mutex
	status := domain.PaymentStatusPending

	// Both callers must read the pending row before either flips it, the
	// shape of a duplicate webhook delivery.
	var arrivals int32
	bothArrived := make(chan struct{})
	f.payments.FindByProviderIDFunc = func(ctx context.Context, providerID string) (*domain.Payment, error) {
		if atomic.AddInt32(&arrivals, 1) == 2 {
			close(bothArrived)
		}
		<-bothArrived
		mu.Lock()
		defer mu.Unlock()
		return &domain.Payment{ID: "pay-1", PlanID: "plan-1", ProviderID: providerID, Status: status}, nil
	}
	f.payments.MarkCompletedFunc = func(ctx context.Context, providerID string, at time.Time) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if status != domain.PaymentStatusPending {
			return false, nil
		}
		status = domain.PaymentStatusCompleted
		return true, nil
	}

	var minted int32
	f.vouchers.GenerateFunc = func(ctx context.Context, a *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
		atomic.AddInt32(&minted, 1)
		return &domain.VoucherBatch{
			BatchID:  "batch-1",
			Vouchers: []domain.Voucher{{ID: "v1", Code: "AAAA-BBBB-CCCC"}},
		}, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	results := make([]*domain.Payment, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Complete(context.Background(), "pi_1")
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&minted); n != 1 {
		t.Fatalf("Expected exactly 1 voucher minted for one payment, got %d", n)
	}
	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Errorf("Caller %d failed: %v", i, errs[i])
		}
		if results[i] == nil || results[i].Status != domain.PaymentStatusCompleted {
			t.Errorf("Caller %d expected a completed payment back", i)
		}
	}
}

func TestCompleteLosesFlipToConcurrentCaller(t *testing.T) {
	f := newFixture()

	f.payments.FindByProviderIDFunc = func(ctx context.Context, providerID string) (*domain.Payment, error) {
		return &domain.Payment{ID: "pay-1", PlanID: "plan-1", ProviderID: providerID, Status: domain.PaymentStatusPending}, nil
	}
	f.payments.MarkCompletedFunc = func(ctx context.Context, providerID string, at time.Time) (bool, error) {
		return false, nil
	}

	generated := false
	f.vouchers.GenerateFunc = func(ctx context.Context, a *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
		generated = true
		return nil, nil
	}

	payment, err := f.svc.Complete(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if generated {
		t.Error("A caller that lost the status flip must not mint a voucher")
	}
	if payment == nil {
		t.Fatal("Expected the settled payment back")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newFixture()

	voucherID := "v1"
	f.payments.FindByProviderIDFunc = func(ctx context.Context, providerID string) (*domain.Payment, error) {
		return &domain.Payment{
			ID:         "pay-1",
			ProviderID: providerID,
			Status:     domain.PaymentStatusCompleted,
			VoucherID:  &voucherID,
		}, nil
	}

	generated := false
	f.vouchers.GenerateFunc = func(ctx context.Context, a *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
		generated = true
		return nil, nil
	}

	payment, err := f.svc.Complete(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if generated {
		t.Error("A completed payment must not issue a second voucher")
	}
	if *payment.VoucherID != "v1" {
		t.Error("Expected the original voucher back")
	}
}

func TestCompleteUnpaidPayment(t *testing.T) {
	f := newFixture()

	f.payments.FindByProviderIDFunc = func(ctx context.Context, providerID string) (*domain.Payment, error) {
		return &domain.Payment{ID: "pay-1", ProviderID: providerID, Status: domain.PaymentStatusPending}, nil
	}
	f.gateway.VerifyPaymentFunc = func(ctx context.Context, providerID string) (*ports.PaymentResult, error) {
		return &ports.PaymentResult{Status: "requires_payment_method", Paid: false}, nil
	}

	_, err := f.svc.Complete(context.Background(), "pi_123")
	if !errors.Is(err, domain.ErrPaymentNotCompleted) {
		t.Errorf("Expected ErrPaymentNotCompleted, got %v", err)
	}
}

func TestCompleteUnknownProviderID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Complete(context.Background(), "pi_unknown")
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("Expected ErrPaymentNotFound, got %v", err)
	}
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	f := newFixture()

	f.payments.FindByIDFunc = func(ctx context.Context, id string) (*domain.Payment, error) {
		return &domain.Payment{ID: id, Status: domain.PaymentStatusPending}, nil
	}

	_, err := f.svc.Refund(context.Background(), "pay-1")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestRefundCompletedPayment(t *testing.T) {
	f := newFixture()

	f.payments.FindByIDFunc = func(ctx context.Context, id string) (*domain.Payment, error) {
		return &domain.Payment{ID: id, ProviderID: "pi_123", Status: domain.PaymentStatusCompleted}, nil
	}
	refunded := ""
	f.gateway.RefundPaymentFunc = func(ctx context.Context, providerID string) error {
		refunded = providerID
		return nil
	}

	payment, err := f.svc.Refund(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("Refund failed: %v", err)
	}
	if refunded != "pi_123" {
		t.Error("Expected gateway refund call")
	}
	if payment.Status != domain.PaymentStatusRefunded {
		t.Errorf("Expected refunded, got %s", payment.Status)
	}
}
