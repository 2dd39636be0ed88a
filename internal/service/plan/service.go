package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type Service struct {
	plans    ports.PlanRepository
	vouchers ports.VoucherRepository
	sessions ports.SessionRepository
	log      *zap.Logger
}

func NewService(plans ports.PlanRepository, vouchers ports.VoucherRepository, sessions ports.SessionRepository, log *zap.Logger) ports.PlanService {
	return &Service{
		plans:    plans,
		vouchers: vouchers,
		sessions: sessions,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, p *domain.Plan) error {
	if p.Name == "" {
		return fmt.Errorf("%w: plan name is required", domain.ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: negative price", domain.ErrInvalidInput)
	}
	if p.DurationHours < 0 || p.DataLimitMB < 0 {
		return fmt.Errorf("%w: negative duration or data limit", domain.ErrInvalidInput)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.PlanStatusActive
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.plans.Save(ctx, p); err != nil {
		return err
	}

	s.log.Info("Plan created", zap.String("plan_id", p.ID), zap.String("name", p.Name))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Plan, error) {
	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlanNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error) {
	return s.plans.FindAll(ctx, locationID, status)
}

// Delete refuses while the plan is still referenced: unused vouchers would
// lose their terms and active sessions their accounting.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrPlanNotFound
	}

	unused, err := s.vouchers.CountUnusedByPlan(ctx, id)
	if err != nil {
		return err
	}
	if unused > 0 {
		return fmt.Errorf("%w: %d unused vouchers reference it", domain.ErrPlanInUse, unused)
	}

	active, err := s.sessions.CountActiveByPlan(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d active sessions reference it", domain.ErrPlanInUse, active)
	}

	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Plan deleted", zap.String("plan_id", id))
	return nil
}
