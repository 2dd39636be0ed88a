package plan

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/mocks"
	"github.com/wifight/wifight/internal/ports"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

func newService(plans *mocks.MockPlanRepository, vouchers *mocks.MockVoucherRepository, sessions *mocks.MockSessionRepository) ports.PlanService {
	return NewService(plans, vouchers, sessions, newTestLogger())
}

func TestCreateAssignsDefaults(t *testing.T) {
	var saved *domain.Plan
	plans := &mocks.MockPlanRepository{
		SaveFunc: func(ctx context.Context, p *domain.Plan) error {
			saved = p
			return nil
		},
	}

	svc := newService(plans, &mocks.MockVoucherRepository{}, &mocks.MockSessionRepository{})
	p := &domain.Plan{Name: "Day Pass", Price: 5, DurationHours: 24}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if saved.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if saved.Status != domain.PlanStatusActive {
		t.Errorf("Expected default status active, got %s", saved.Status)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newService(&mocks.MockPlanRepository{}, &mocks.MockVoucherRepository{}, &mocks.MockSessionRepository{})

	bad := []*domain.Plan{
		{Name: ""},
		{Name: "x", Price: -1},
		{Name: "x", DurationHours: -1},
	}
	for _, p := range bad {
		if err := svc.Create(context.Background(), p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Plan %+v: expected ErrInvalidInput, got %v", p, err)
		}
	}
}

func TestDeleteRefusesWithUnusedVouchers(t *testing.T) {
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return &domain.Plan{ID: id}, nil
		},
	}
	vouchers := &mocks.MockVoucherRepository{
		CountUnusedByPlanFunc: func(ctx context.Context, planID string) (int64, error) {
			return 12, nil
		},
	}

	svc := newService(plans, vouchers, &mocks.MockSessionRepository{})
	err := svc.Delete(context.Background(), "plan-1")
	if !errors.Is(err, domain.ErrPlanInUse) {
		t.Errorf("Expected ErrPlanInUse, got %v", err)
	}
}

func TestDeleteRefusesWithActiveSessions(t *testing.T) {
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return &domain.Plan{ID: id}, nil
		},
	}
	sessions := &mocks.MockSessionRepository{
		CountActiveByPlanFunc: func(ctx context.Context, planID string) (int64, error) {
			return 1, nil
		},
	}

	svc := newService(plans, &mocks.MockVoucherRepository{}, sessions)
	err := svc.Delete(context.Background(), "plan-1")
	if !errors.Is(err, domain.ErrPlanInUse) {
		t.Errorf("Expected ErrPlanInUse, got %v", err)
	}
}

func TestDeleteUnreferencedPlan(t *testing.T) {
	deleted := ""
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return &domain.Plan{ID: id}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := newService(plans, &mocks.MockVoucherRepository{}, &mocks.MockSessionRepository{})
	if err := svc.Delete(context.Background(), "plan-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != "plan-1" {
		t.Error("Expected plan to be deleted")
	}
}

func TestDeleteUnknownPlan(t *testing.T) {
	svc := newService(&mocks.MockPlanRepository{}, &mocks.MockVoucherRepository{}, &mocks.MockSessionRepository{})

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}
}

func TestGetUnknownPlan(t *testing.T) {
	svc := newService(&mocks.MockPlanRepository{}, &mocks.MockVoucherRepository{}, &mocks.MockSessionRepository{})

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}
}
