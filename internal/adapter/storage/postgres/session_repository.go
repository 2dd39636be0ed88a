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

type SessionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSessionRepository(db *gorm.DB, log *zap.Logger) ports.SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log,
	}
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) FindActive(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error) {
	q := r.db.WithContext(ctx).Where("status = ?", domain.SessionStatusActive)
	if controllerID != "" {
		q = q.Where("controller_id = ?", controllerID)
	}
	if macAddress != "" {
		q = q.Where("mac_address = ?", macAddress)
	}
	var sessions []domain.Session
	err := q.Order("start_time desc").Find(&sessions).Error
	return sessions, err
}

// Terminate stamps end_time and the elapsed minutes in one conditional
// statement; the status predicate makes repeat calls no-ops.
func (r *SessionRepository) Terminate(ctx context.Context, id string, status domain.SessionStatus, endTime time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ? AND status = ?", id, domain.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":           status,
			"end_time":         endTime,
			"duration_minutes": gorm.Expr("CAST(EXTRACT(EPOCH FROM (?::timestamptz - start_time)) / 60 AS INTEGER)", endTime),
			"updated_at":       endTime,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepository) TerminateByMAC(ctx context.Context, macAddress string, endTime time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("mac_address = ? AND status = ?", macAddress, domain.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":           domain.SessionStatusTerminated,
			"end_time":         endTime,
			"duration_minutes": gorm.Expr("CAST(EXTRACT(EPOCH FROM (?::timestamptz - start_time)) / 60 AS INTEGER)", endTime),
			"updated_at":       endTime,
		})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) ExpireStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("status = ? AND start_time < ?", domain.SessionStatusActive, cutoff).
		Updates(map[string]interface{}{
			"status":           domain.SessionStatusExpired,
			"end_time":         now,
			"duration_minutes": gorm.Expr("CAST(EXTRACT(EPOCH FROM (?::timestamptz - start_time)) / 60 AS INTEGER)", now),
			"updated_at":       now,
		})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) DeleteTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", domain.SessionStatusTerminated, cutoff).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error {
	return r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"data_used_mb": dataUsedMB,
			"updated_at":   time.Now(),
		}).Error
}

func (r *SessionRepository) History(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error) {
	q := r.db.WithContext(ctx).Model(&domain.Session{})
	if filter.ControllerID != "" {
		q = q.Where("controller_id = ?", filter.ControllerID)
	}
	if filter.MACAddress != "" {
		q = q.Where("mac_address = ?", filter.MACAddress)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		q = q.Where("start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("start_time <= ?", *filter.EndDate)
	}
	q = q.Order("start_time desc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var sessions []domain.Session
	err := q.Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error) {
	var stats domain.SessionStats
	q := r.db.WithContext(ctx).Model(&domain.Session{}).
		Select(`COUNT(*) as total_sessions,
			COUNT(*) FILTER (WHERE status = 'active') as active_sessions,
			COALESCE(SUM(data_used_mb), 0) as total_data_used_mb,
			COALESCE(AVG(duration_minutes), 0) as avg_duration_minutes,
			COALESCE(SUM(duration_minutes), 0) as total_duration_minutes`)
	if controllerID != "" {
		q = q.Where("controller_id = ?", controllerID)
	}
	if start != nil {
		q = q.Where("start_time >= ?", *start)
	}
	if end != nil {
		q = q.Where("start_time <= ?", *end)
	}
	if err := q.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *SessionRepository) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("plan_id = ? AND status = ?", planID, domain.SessionStatusActive).
		Count(&count).Error
	return count, err
}
