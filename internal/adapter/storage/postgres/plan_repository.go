package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type PlanRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPlanRepository(db *gorm.DB, log *zap.Logger) ports.PlanRepository {
	return &PlanRepository{
		db:  db,
		log: log,
	}
}

func (r *PlanRepository) Save(ctx context.Context, p *domain.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	var p domain.Plan
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) FindAll(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error) {
	q := r.db.WithContext(ctx).Model(&domain.Plan{})
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var plans []domain.Plan
	err := q.Order("price asc").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) FindFree(ctx context.Context) (*domain.Plan, error) {
	var p domain.Plan
	err := r.db.WithContext(ctx).
		Where("price = 0 AND status = ?", domain.PlanStatusActive).
		Order("created_at asc").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Plan{}, "id = ?", id).Error
}
