package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type ControllerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewControllerRepository(db *gorm.DB, log *zap.Logger) ports.ControllerRepository {
	return &ControllerRepository{
		db:  db,
		log: log,
	}
}

func (r *ControllerRepository) Save(ctx context.Context, c *domain.Controller) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ControllerRepository) FindByID(ctx context.Context, id string) (*domain.Controller, error) {
	var c domain.Controller
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ControllerRepository) FindAll(ctx context.Context, locationID string) ([]domain.Controller, error) {
	q := r.db.WithContext(ctx).Model(&domain.Controller{})
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}
	var controllers []domain.Controller
	err := q.Order("created_at desc").Find(&controllers).Error
	return controllers, err
}

func (r *ControllerRepository) FindFirstActive(ctx context.Context) (*domain.Controller, error) {
	var c domain.Controller
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.ControllerStatusActive).
		Order("created_at asc").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ControllerRepository) UpdateStatus(ctx context.Context, id string, status domain.ControllerStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Controller{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *ControllerRepository) UpdateLastSync(ctx context.Context, id string, version string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"last_sync":  now,
		"updated_at": now,
	}
	if version != "" {
		updates["version"] = version
	}
	return r.db.WithContext(ctx).Model(&domain.Controller{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ControllerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Controller{}, "id = ?", id).Error
}
