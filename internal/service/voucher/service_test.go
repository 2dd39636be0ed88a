package voucher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/mocks"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

func testConfig() config.VoucherConfig {
	return config.VoucherConfig{
		ExpiryDays:    30,
		CodeAttempts:  20,
		MaxBatchSize:  1000,
		StatsCacheTTL: time.Minute,
	}
}

func activePlan() *domain.Plan {
	return &domain.Plan{
		ID:            "plan-1",
		Name:          "Day Pass",
		Status:        domain.PlanStatusActive,
		Price:         5.0,
		DurationHours: 24,
		DataLimitMB:   2048,
	}
}

func newService(vouchers *mocks.MockVoucherRepository, plans *mocks.MockPlanRepository, q *mocks.MockMessageQueue) ports.VoucherService {
	if q == nil {
		q = mocks.NewMockMessageQueue()
	}
	gen := NewGenerator(vouchers, 20)
	return NewService(vouchers, plans, gen, mocks.NewMockCache(), q, testConfig(), newTestLogger())
}

func TestGenerateCreatesBatch(t *testing.T) {
	var created []*domain.Voucher
	vouchers := &mocks.MockVoucherRepository{
		CreateBatchFunc: func(ctx context.Context, batch []*domain.Voucher) error {
			created = batch
			return nil
		},
	}
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return activePlan(), nil
		},
	}
	q := mocks.NewMockMessageQueue()

	svc := newService(vouchers, plans, q)
	admin := &domain.User{ID: "u1", Role: domain.UserRoleAdmin}

	batch, err := svc.Generate(context.Background(), admin, "plan-1", 10, "august batch")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(batch.Vouchers) != 10 {
		t.Fatalf("Expected 10 vouchers, got %d", len(batch.Vouchers))
	}
	if len(created) != 10 {
		t.Fatalf("Expected 10 vouchers persisted, got %d", len(created))
	}

	seen := make(map[string]bool)
	for _, v := range batch.Vouchers {
		if !domain.ValidVoucherCode(v.Code) {
			t.Errorf("Voucher code %q has wrong format", v.Code)
		}
		if seen[v.Code] {
			t.Errorf("Duplicate code %q within batch", v.Code)
		}
		seen[v.Code] = true

		if v.Status != domain.VoucherStatusUnused {
			t.Errorf("Expected status unused, got %s", v.Status)
		}
		if v.Price != 5.0 || v.DurationHours != 24 || v.DataLimitMB != 2048 {
			t.Error("Voucher should snapshot plan price, duration and data limit")
		}
		if v.BatchID != batch.BatchID {
			t.Errorf("Voucher batch id %q does not match %q", v.BatchID, batch.BatchID)
		}
		if time.Until(v.ExpiresAt) < 29*24*time.Hour {
			t.Error("Expected expiry roughly 30 days out")
		}
	}

	if len(q.GetPublishedMessages("voucher.generated")) != 1 {
		t.Error("Expected a voucher.generated event")
	}
}

func TestGenerateRejectsOperator(t *testing.T) {
	svc := newService(&mocks.MockVoucherRepository{}, &mocks.MockPlanRepository{}, nil)
	operator := &domain.User{ID: "u2", Role: domain.UserRoleOperator}

	_, err := svc.Generate(context.Background(), operator, "plan-1", 5, "")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestGenerateAllowsSystemActor(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{}
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return activePlan(), nil
		},
	}

	svc := newService(vouchers, plans, nil)
	if _, err := svc.Generate(context.Background(), nil, "plan-1", 1, ""); err != nil {
		t.Errorf("System generation should succeed, got %v", err)
	}
}

func TestGenerateValidatesQuantity(t *testing.T) {
	svc := newService(&mocks.MockVoucherRepository{}, &mocks.MockPlanRepository{}, nil)

	for _, quantity := range []int{0, -1, 1001} {
		_, err := svc.Generate(context.Background(), nil, "plan-1", quantity, "")
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Quantity %d: expected ErrInvalidInput, got %v", quantity, err)
		}
	}
}

func TestGenerateUnknownPlan(t *testing.T) {
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return nil, nil
		},
	}

	svc := newService(&mocks.MockVoucherRepository{}, plans, nil)
	_, err := svc.Generate(context.Background(), nil, "missing", 5, "")
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}
}

func TestGenerateRetriesOnceOnInsertCollision(t *testing.T) {
	inserts := 0
	var firstCodes, secondCodes []string
	vouchers := &mocks.MockVoucherRepository{
		CreateBatchFunc: func(ctx context.Context, batch []*domain.Voucher) error {
			inserts++
			codes := make([]string, 0, len(batch))
			for _, v := range batch {
				codes = append(codes, v.Code)
			}
			if inserts == 1 {
				firstCodes = codes
				return domain.ErrDuplicateCode
			}
			secondCodes = codes
			return nil
		},
	}
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return activePlan(), nil
		},
	}

	svc := newService(vouchers, plans, nil)
	batch, err := svc.Generate(context.Background(), nil, "plan-1", 3, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if inserts != 2 {
		t.Fatalf("Expected 2 insert attempts, got %d", inserts)
	}
	if len(batch.Vouchers) != 3 {
		t.Fatalf("Expected 3 vouchers, got %d", len(batch.Vouchers))
	}

	first := make(map[string]bool)
	for _, c := range firstCodes {
		first[c] = true
	}
	fresh := false
	for _, c := range secondCodes {
		if !first[c] {
			fresh = true
		}
	}
	if !fresh {
		t.Error("Retry should draw fresh codes")
	}
}

func TestGenerateGivesUpAfterSecondCollision(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{
		CreateBatchFunc: func(ctx context.Context, batch []*domain.Voucher) error {
			return domain.ErrDuplicateCode
		},
	}
	plans := &mocks.MockPlanRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Plan, error) {
			return activePlan(), nil
		},
	}

	svc := newService(vouchers, plans, nil)
	_, err := svc.Generate(context.Background(), nil, "plan-1", 3, "")
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Errorf("Expected ErrDuplicateCode, got %v", err)
	}
}

func TestValidateNormalizesCode(t *testing.T) {
	var lookedUp string
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			lookedUp = code
			return &domain.Voucher{
				ID:        "v1",
				Code:      code,
				Status:    domain.VoucherStatusUnused,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)
	v, err := svc.Validate(context.Background(), "  ab2d-efgh-jk3m ")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if lookedUp != "AB2D-EFGH-JK3M" {
		t.Errorf("Expected normalized lookup, got %q", lookedUp)
	}
	if v == nil {
		t.Fatal("Expected voucher")
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := newService(&mocks.MockVoucherRepository{}, &mocks.MockPlanRepository{}, nil)

	_, err := svc.Validate(context.Background(), "AAAA-BBBB-CCCC")
	if !errors.Is(err, domain.ErrVoucherNotFound) {
		t.Errorf("Expected ErrVoucherNotFound, got %v", err)
	}
}

func TestValidateMalformedCode(t *testing.T) {
	svc := newService(&mocks.MockVoucherRepository{}, &mocks.MockPlanRepository{}, nil)

	_, err := svc.Validate(context.Background(), "not a code")
	if !errors.Is(err, domain.ErrVoucherNotFound) {
		t.Errorf("Expected ErrVoucherNotFound, got %v", err)
	}
}

func TestValidateUsedVoucher(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			return &domain.Voucher{ID: "v1", Status: domain.VoucherStatusUsed}, nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)
	_, err := svc.Validate(context.Background(), "AAAA-BBBB-CCCC")
	if !errors.Is(err, domain.ErrVoucherAlreadyUsed) {
		t.Errorf("Expected ErrVoucherAlreadyUsed, got %v", err)
	}
}

func TestValidatePersistsLazyExpiry(t *testing.T) {
	expired := ""
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			return &domain.Voucher{
				ID:        "v1",
				Status:    domain.VoucherStatusUnused,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
		MarkExpiredFunc: func(ctx context.Context, id string) error {
			expired = id
			return nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)
	_, err := svc.Validate(context.Background(), "AAAA-BBBB-CCCC")
	if !errors.Is(err, domain.ErrVoucherExpired) {
		t.Errorf("Expected ErrVoucherExpired, got %v", err)
	}
	if expired != "v1" {
		t.Error("Expected expiry to be persisted on read")
	}
}

func TestRedeemHappyPath(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			return &domain.Voucher{
				ID:        "v1",
				Code:      code,
				Status:    domain.VoucherStatusUnused,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	q := mocks.NewMockMessageQueue()

	svc := newService(vouchers, &mocks.MockPlanRepository{}, q)
	v, err := svc.Redeem(context.Background(), "AAAA-BBBB-CCCC", "AA:BB:CC:DD:EE:FF", domain.JSONMap{"ua": "test"})
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}

	if v.Status != domain.VoucherStatusUsed {
		t.Errorf("Expected status used, got %s", v.Status)
	}
	if v.UsedBy != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Expected UsedBy to record the MAC, got %q", v.UsedBy)
	}
	if v.UsedAt == nil {
		t.Error("Expected UsedAt to be set")
	}

	msgs := q.GetPublishedMessages("voucher.redeemed")
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 voucher.redeemed event, got %d", len(msgs))
	}
	var event map[string]interface{}
	if err := json.Unmarshal(msgs[0], &event); err != nil {
		t.Fatalf("Event is not valid JSON: %v", err)
	}
	if event["voucher_id"] != "v1" {
		t.Errorf("Unexpected event payload: %v", event)
	}
}

func TestRedeemRejectsInvalidMAC(t *testing.T) {
	svc := newService(&mocks.MockVoucherRepository{}, &mocks.MockPlanRepository{}, nil)

	_, err := svc.Redeem(context.Background(), "AAAA-BBBB-CCCC", "not-a-mac", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestRedeemLosesRace(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			return &domain.Voucher{
				ID:        "v1",
				Status:    domain.VoucherStatusUnused,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		MarkUsedFunc: func(ctx context.Context, id, usedBy string, at time.Time) (bool, error) {
			return false, nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)
	_, err := svc.Redeem(context.Background(), "AAAA-BBBB-CCCC", "AA:BB:CC:DD:EE:FF", nil)
	if !errors.Is(err, domain.ErrVoucherAlreadyUsed) {
		t.Errorf("Expected ErrVoucherAlreadyUsed, got %v", err)
	}
}

func TestRedeemConcurrentSingleWinner(t *testing.T) {
	var mu sync.Mutex
	used := false
	vouchers := &mocks.MockVoucherRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Voucher, error) {
			return &domain.Voucher{
				ID:        "v1",
				Status:    domain.VoucherStatusUnused,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		MarkUsedFunc: func(ctx context.Context, id, usedBy string, at time.Time) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if used {
				return false, nil
			}
			used = true
			return true, nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), "AAAA-BBBB-CCCC", "AA:BB:CC:DD:EE:FF", nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else if !errors.Is(err, domain.ErrVoucherAlreadyUsed) {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 winner, got %d", winners)
	}
}

func TestExpireOldReportsCount(t *testing.T) {
	vouchers := &mocks.MockVoucherRepository{
		ExpireDueFunc: func(ctx context.Context, now time.Time) (int64, error) {
			return 7, nil
		},
	}

	svc := newService(vouchers, &mocks.MockPlanRepository{}, nil)
	n, err := svc.ExpireOld(context.Background())
	if err != nil {
		t.Fatalf("ExpireOld failed: %v", err)
	}
	if n != 7 {
		t.Errorf("Expected 7, got %d", n)
	}
}

func TestStatsUsesCache(t *testing.T) {
	repoCalls := 0
	vouchers := &mocks.MockVoucherRepository{
		StatsFunc: func(ctx context.Context, locationID string) (*domain.VoucherStats, error) {
			repoCalls++
			return &domain.VoucherStats{Total: 42, Unused: 40}, nil
		},
	}

	gen := NewGenerator(vouchers, 20)
	svc := NewService(vouchers, &mocks.MockPlanRepository{}, gen, mocks.NewMockCache(), mocks.NewMockMessageQueue(), testConfig(), newTestLogger())

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(context.Background(), "")
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Total != 42 {
			t.Errorf("Expected total 42, got %d", stats.Total)
		}
	}

	if repoCalls != 1 {
		t.Errorf("Expected 1 repository hit with warm cache, got %d", repoCalls)
	}
}
