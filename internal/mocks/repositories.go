package mocks

import (
	"context"
	"time"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

// MockVoucherRepository is a mock implementation of VoucherRepository
type MockVoucherRepository struct {
	CreateBatchFunc       func(ctx context.Context, vouchers []*domain.Voucher) error
	FindByIDFunc          func(ctx context.Context, id string) (*domain.Voucher, error)
	FindByCodeFunc        func(ctx context.Context, code string) (*domain.Voucher, error)
	CodeExistsFunc        func(ctx context.Context, code string) (bool, error)
	MarkUsedFunc          func(ctx context.Context, id, usedBy string, at time.Time) (bool, error)
	MarkExpiredFunc       func(ctx context.Context, id string) error
	ExpireDueFunc         func(ctx context.Context, now time.Time) (int64, error)
	FindAllFunc           func(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error)
	StatsFunc             func(ctx context.Context, locationID string) (*domain.VoucherStats, error)
	CountUnusedByPlanFunc func(ctx context.Context, planID string) (int64, error)
}

func (m *MockVoucherRepository) CreateBatch(ctx context.Context, vouchers []*domain.Voucher) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, vouchers)
	}
	return nil
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id string) (*domain.Voucher, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockVoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockVoucherRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsFunc != nil {
		return m.CodeExistsFunc(ctx, code)
	}
	return false, nil
}

func (m *MockVoucherRepository) MarkUsed(ctx context.Context, id, usedBy string, at time.Time) (bool, error) {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id, usedBy, at)
	}
	return true, nil
}

func (m *MockVoucherRepository) MarkExpired(ctx context.Context, id string) error {
	if m.MarkExpiredFunc != nil {
		return m.MarkExpiredFunc(ctx, id)
	}
	return nil
}

func (m *MockVoucherRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	if m.ExpireDueFunc != nil {
		return m.ExpireDueFunc(ctx, now)
	}
	return 0, nil
}

func (m *MockVoucherRepository) FindAll(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockVoucherRepository) Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, locationID)
	}
	return &domain.VoucherStats{}, nil
}

func (m *MockVoucherRepository) CountUnusedByPlan(ctx context.Context, planID string) (int64, error) {
	if m.CountUnusedByPlanFunc != nil {
		return m.CountUnusedByPlanFunc(ctx, planID)
	}
	return 0, nil
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	SaveFunc                   func(ctx context.Context, s *domain.Session) error
	FindByIDFunc               func(ctx context.Context, id string) (*domain.Session, error)
	FindActiveFunc             func(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error)
	TerminateFunc              func(ctx context.Context, id string, status domain.SessionStatus, endTime time.Time) (bool, error)
	TerminateByMACFunc         func(ctx context.Context, macAddress string, endTime time.Time) (int64, error)
	ExpireStartedBeforeFunc    func(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteTerminatedBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	UpdateUsageFunc            func(ctx context.Context, id string, dataUsedMB float64) error
	HistoryFunc                func(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error)
	StatsFunc                  func(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error)
	CountActiveByPlanFunc      func(ctx context.Context, planID string) (int64, error)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSessionRepository) FindActive(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, controllerID, macAddress)
	}
	return nil, nil
}

func (m *MockSessionRepository) Terminate(ctx context.Context, id string, status domain.SessionStatus, endTime time.Time) (bool, error) {
	if m.TerminateFunc != nil {
		return m.TerminateFunc(ctx, id, status, endTime)
	}
	return true, nil
}

func (m *MockSessionRepository) TerminateByMAC(ctx context.Context, macAddress string, endTime time.Time) (int64, error) {
	if m.TerminateByMACFunc != nil {
		return m.TerminateByMACFunc(ctx, macAddress, endTime)
	}
	return 0, nil
}

func (m *MockSessionRepository) ExpireStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ExpireStartedBeforeFunc != nil {
		return m.ExpireStartedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockSessionRepository) DeleteTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteTerminatedBeforeFunc != nil {
		return m.DeleteTerminatedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockSessionRepository) UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error {
	if m.UpdateUsageFunc != nil {
		return m.UpdateUsageFunc(ctx, id, dataUsedMB)
	}
	return nil
}

func (m *MockSessionRepository) History(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockSessionRepository) Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, controllerID, start, end)
	}
	return &domain.SessionStats{}, nil
}

func (m *MockSessionRepository) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	if m.CountActiveByPlanFunc != nil {
		return m.CountActiveByPlanFunc(ctx, planID)
	}
	return 0, nil
}

// MockPlanRepository is a mock implementation of PlanRepository
type MockPlanRepository struct {
	SaveFunc     func(ctx context.Context, p *domain.Plan) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Plan, error)
	FindAllFunc  func(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error)
	FindFreeFunc func(ctx context.Context) (*domain.Plan, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockPlanRepository) Save(ctx context.Context, p *domain.Plan) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPlanRepository) FindAll(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, locationID, status)
	}
	return nil, nil
}

func (m *MockPlanRepository) FindFree(ctx context.Context) (*domain.Plan, error) {
	if m.FindFreeFunc != nil {
		return m.FindFreeFunc(ctx)
	}
	return nil, nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockControllerRepository is a mock implementation of ControllerRepository
type MockControllerRepository struct {
	SaveFunc            func(ctx context.Context, c *domain.Controller) error
	FindByIDFunc        func(ctx context.Context, id string) (*domain.Controller, error)
	FindAllFunc         func(ctx context.Context, locationID string) ([]domain.Controller, error)
	FindFirstActiveFunc func(ctx context.Context) (*domain.Controller, error)
	UpdateStatusFunc    func(ctx context.Context, id string, status domain.ControllerStatus) error
	UpdateLastSyncFunc  func(ctx context.Context, id string, version string) error
	DeleteFunc          func(ctx context.Context, id string) error
}

func (m *MockControllerRepository) Save(ctx context.Context, c *domain.Controller) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return nil
}

func (m *MockControllerRepository) FindByID(ctx context.Context, id string) (*domain.Controller, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockControllerRepository) FindAll(ctx context.Context, locationID string) ([]domain.Controller, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *MockControllerRepository) FindFirstActive(ctx context.Context) (*domain.Controller, error) {
	if m.FindFirstActiveFunc != nil {
		return m.FindFirstActiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockControllerRepository) UpdateStatus(ctx context.Context, id string, status domain.ControllerStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockControllerRepository) UpdateLastSync(ctx context.Context, id string, version string) error {
	if m.UpdateLastSyncFunc != nil {
		return m.UpdateLastSyncFunc(ctx, id, version)
	}
	return nil
}

func (m *MockControllerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	SaveFunc             func(ctx context.Context, p *domain.Payment) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderIDFunc func(ctx context.Context, providerID string) (*domain.Payment, error)
	MarkCompletedFunc    func(ctx context.Context, providerID string, at time.Time) (bool, error)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPaymentRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	if m.FindByProviderIDFunc != nil {
		return m.FindByProviderIDFunc(ctx, providerID)
	}
	return nil, nil
}

func (m *MockPaymentRepository) MarkCompleted(ctx context.Context, providerID string, at time.Time) (bool, error) {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, providerID, at)
	}
	return true, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}
