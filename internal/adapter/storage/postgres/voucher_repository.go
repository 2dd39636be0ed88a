package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type VoucherRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewVoucherRepository(db *gorm.DB, log *zap.Logger) ports.VoucherRepository {
	return &VoucherRepository{
		db:  db,
		log: log,
	}
}

func (r *VoucherRepository) CreateBatch(ctx context.Context, vouchers []*domain.Voucher) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&vouchers).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("create voucher batch: %w", err)
	}
	return nil
}

func (r *VoucherRepository) FindByID(ctx context.Context, id string) (*domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.WithContext(ctx).First(&v, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Voucher{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// MarkUsed is the single conditional write that decides redemption races:
// the status predicate guarantees at most one caller sees RowsAffected == 1.
func (r *VoucherRepository) MarkUsed(ctx context.Context, id, usedBy string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Voucher{}).
		Where("id = ? AND status = ?", id, domain.VoucherStatusUnused).
		Updates(map[string]interface{}{
			"status":     domain.VoucherStatusUsed,
			"used_at":    at,
			"used_by":    usedBy,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *VoucherRepository) MarkExpired(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Voucher{}).
		Where("id = ? AND status = ?", id, domain.VoucherStatusUnused).
		Updates(map[string]interface{}{
			"status":     domain.VoucherStatusExpired,
			"updated_at": time.Now(),
		}).Error
}

func (r *VoucherRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Voucher{}).
		Where("status = ? AND expires_at < ?", domain.VoucherStatusUnused, now).
		Updates(map[string]interface{}{
			"status":     domain.VoucherStatusExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *VoucherRepository) FindAll(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error) {
	q := r.db.WithContext(ctx).Model(&domain.Voucher{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PlanID != "" {
		q = q.Where("plan_id = ?", filter.PlanID)
	}
	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	q = q.Order("created_at desc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var vouchers []domain.Voucher
	err := q.Find(&vouchers).Error
	return vouchers, err
}

func (r *VoucherRepository) Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error) {
	var stats domain.VoucherStats
	q := r.db.WithContext(ctx).Model(&domain.Voucher{}).
		Select(`COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'unused') as unused,
			COUNT(*) FILTER (WHERE status = 'used') as used,
			COUNT(*) FILTER (WHERE status = 'expired') as expired,
			COALESCE(SUM(price) FILTER (WHERE status = 'used'), 0) as total_revenue`)
	if locationID != "" {
		q = q.Where("plan_id IN (?)",
			r.db.Model(&domain.Plan{}).Select("id").Where("location_id = ?", locationID))
	}
	if err := q.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *VoucherRepository) CountUnusedByPlan(ctx context.Context, planID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Voucher{}).
		Where("plan_id = ? AND status = ?", planID, domain.VoucherStatusUnused).
		Count(&count).Error
	return count, err
}
