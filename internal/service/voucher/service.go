package voucher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/adapter/queue"
	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/observability/telemetry"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

const statsCacheKey = "voucher:stats"

// Only the global stats view is cached; location-scoped queries are rare
// enough to hit the database directly.

type Service struct {
	vouchers ports.VoucherRepository
	plans    ports.PlanRepository
	gen      *Generator
	cache    ports.Cache
	queue    queue.MessageQueue
	cfg      config.VoucherConfig
	log      *zap.Logger
}

func NewService(
	vouchers ports.VoucherRepository,
	plans ports.PlanRepository,
	gen *Generator,
	cache ports.Cache,
	q queue.MessageQueue,
	cfg config.VoucherConfig,
	log *zap.Logger,
) ports.VoucherService {
	return &Service{
		vouchers: vouchers,
		plans:    plans,
		gen:      gen,
		cache:    cache,
		queue:    q,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Service) Generate(ctx context.Context, actor *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
	if actor != nil && !actor.CanManageVouchers() {
		return nil, domain.ErrForbidden
	}
	if quantity < 1 || quantity > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, s.cfg.MaxBatchSize)
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if plan.Status != domain.PlanStatusActive {
		return nil, fmt.Errorf("%w: plan %s is not active", domain.ErrInvalidInput, planID)
	}

	batchID := "batch_" + uuid.New().String()

	// One retry with entirely fresh codes covers the window between the
	// generator's existence check and the insert.
	var batch []*domain.Voucher
	for attempt := 0; ; attempt++ {
		batch, err = s.buildBatch(ctx, plan, batchID, quantity)
		if err != nil {
			return nil, err
		}

		err = s.vouchers.CreateBatch(ctx, batch)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateCode) && attempt == 0 {
			s.log.Warn("Voucher code collision on insert, regenerating batch",
				zap.String("batch_id", batchID),
			)
			continue
		}
		return nil, err
	}

	telemetry.VouchersGeneratedTotal.Add(float64(quantity))
	s.invalidateStats(ctx)
	s.publish("voucher.generated", map[string]interface{}{
		"batch_id":   batchID,
		"batch_name": batchName,
		"plan_id":    plan.ID,
		"quantity":   quantity,
	})

	s.log.Info("Voucher batch generated",
		zap.String("batch_id", batchID),
		zap.String("plan_id", plan.ID),
		zap.Int("quantity", quantity),
	)

	result := &domain.VoucherBatch{
		BatchID:   batchID,
		BatchName: batchName,
		Vouchers:  make([]domain.Voucher, 0, len(batch)),
	}
	for _, v := range batch {
		result.Vouchers = append(result.Vouchers, *v)
	}
	return result, nil
}

func (s *Service) buildBatch(ctx context.Context, plan *domain.Plan, batchID string, quantity int) ([]*domain.Voucher, error) {
	validityDays := plan.ValidityDays
	if validityDays <= 0 {
		validityDays = s.cfg.ExpiryDays
	}
	now := time.Now()
	expiresAt := now.AddDate(0, 0, validityDays)

	batch := make([]*domain.Voucher, 0, quantity)
	seen := make(map[string]bool, quantity)
	for len(batch) < quantity {
		code, err := s.gen.NewCode(ctx)
		if err != nil {
			return nil, err
		}
		if seen[code] {
			continue
		}
		seen[code] = true

		batch = append(batch, &domain.Voucher{
			ID:            uuid.New().String(),
			Code:          code,
			PlanID:        plan.ID,
			BatchID:       batchID,
			Status:        domain.VoucherStatusUnused,
			Price:         plan.Price,
			DurationHours: plan.DurationHours,
			DataLimitMB:   plan.DataLimitMB,
			ExpiresAt:     expiresAt,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return batch, nil
}

func (s *Service) Validate(ctx context.Context, code string) (*domain.Voucher, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.ValidVoucherCode(code) {
		return nil, domain.ErrVoucherNotFound
	}

	v, err := s.vouchers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrVoucherNotFound
	}

	switch v.Status {
	case domain.VoucherStatusUsed:
		return nil, domain.ErrVoucherAlreadyUsed
	case domain.VoucherStatusExpired:
		return nil, domain.ErrVoucherExpired
	}

	if time.Now().After(v.ExpiresAt) {
		if err := s.vouchers.MarkExpired(ctx, v.ID); err != nil {
			s.log.Error("Failed to persist voucher expiry", zap.String("voucher_id", v.ID), zap.Error(err))
		}
		return nil, domain.ErrVoucherExpired
	}

	return v, nil
}

func (s *Service) Redeem(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
	if !domain.ValidMACAddress(macAddress) {
		return nil, fmt.Errorf("%w: invalid MAC address", domain.ErrInvalidInput)
	}

	v, err := s.Validate(ctx, code)
	if err != nil {
		telemetry.VoucherRedemptionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	now := time.Now()
	won, err := s.vouchers.MarkUsed(ctx, v.ID, macAddress, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Another redemption consumed the voucher between the read and
		// the conditional update.
		telemetry.VoucherRedemptionsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrVoucherAlreadyUsed
	}

	v.Status = domain.VoucherStatusUsed
	v.UsedAt = &now
	v.UsedBy = macAddress
	v.UpdatedAt = now

	telemetry.VoucherRedemptionsTotal.WithLabelValues("success").Inc()
	s.invalidateStats(ctx)
	s.publish("voucher.redeemed", map[string]interface{}{
		"voucher_id":  v.ID,
		"code":        v.Code,
		"plan_id":     v.PlanID,
		"mac_address": macAddress,
		"device_info": info,
		"used_at":     now,
	})

	s.log.Info("Voucher redeemed",
		zap.String("voucher_id", v.ID),
		zap.String("mac_address", macAddress),
	)

	return v, nil
}

func (s *Service) ExpireOld(ctx context.Context) (int64, error) {
	n, err := s.vouchers.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateStats(ctx)
		s.log.Info("Expired overdue vouchers", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error) {
	if locationID != "" || s.cache == nil {
		return s.vouchers.Stats(ctx, locationID)
	}

	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil && cached != "" {
		var stats domain.VoucherStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.vouchers.Stats(ctx, "")
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, string(data), s.cfg.StatsCacheTTL); err != nil {
			s.log.Warn("Failed to cache voucher stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *Service) List(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error) {
	return s.vouchers.FindAll(ctx, filter)
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.log.Warn("Failed to invalidate voucher stats cache", zap.Error(err))
	}
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
