package mocks

import (
	"context"
	"time"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

// MockControllerGateway is a mock implementation of ControllerGateway
type MockControllerGateway struct {
	AuthorizeClientFunc func(ctx context.Context, mac string, duration time.Duration, uploadKbps, downloadKbps int) error
	BlockClientFunc     func(ctx context.Context, mac string) error
	TestConnectionFunc  func(ctx context.Context) (*domain.ConnectionTest, error)
	GetStatisticsFunc   func(ctx context.Context) (map[string]interface{}, error)
	GetAccessPointsFunc func(ctx context.Context) ([]map[string]interface{}, error)
	GetClientsFunc      func(ctx context.Context) ([]map[string]interface{}, error)
	LogoutFunc          func(ctx context.Context) error
}

func (m *MockControllerGateway) AuthorizeClient(ctx context.Context, mac string, duration time.Duration, uploadKbps, downloadKbps int) error {
	if m.AuthorizeClientFunc != nil {
		return m.AuthorizeClientFunc(ctx, mac, duration, uploadKbps, downloadKbps)
	}
	return nil
}

func (m *MockControllerGateway) BlockClient(ctx context.Context, mac string) error {
	if m.BlockClientFunc != nil {
		return m.BlockClientFunc(ctx, mac)
	}
	return nil
}

func (m *MockControllerGateway) TestConnection(ctx context.Context) (*domain.ConnectionTest, error) {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return &domain.ConnectionTest{Success: true, Message: "Connection successful"}, nil
}

func (m *MockControllerGateway) GetStatistics(ctx context.Context) (map[string]interface{}, error) {
	if m.GetStatisticsFunc != nil {
		return m.GetStatisticsFunc(ctx)
	}
	return map[string]interface{}{}, nil
}

func (m *MockControllerGateway) GetAccessPoints(ctx context.Context) ([]map[string]interface{}, error) {
	if m.GetAccessPointsFunc != nil {
		return m.GetAccessPointsFunc(ctx)
	}
	return nil, nil
}

func (m *MockControllerGateway) GetClients(ctx context.Context) ([]map[string]interface{}, error) {
	if m.GetClientsFunc != nil {
		return m.GetClientsFunc(ctx)
	}
	return nil, nil
}

func (m *MockControllerGateway) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// MockGatewayFactory is a mock implementation of GatewayFactory
type MockGatewayFactory struct {
	ForControllerFunc func(c *domain.Controller) (ports.ControllerGateway, error)
	Gateway           *MockControllerGateway
}

func (m *MockGatewayFactory) ForController(c *domain.Controller) (ports.ControllerGateway, error) {
	if m.ForControllerFunc != nil {
		return m.ForControllerFunc(c)
	}
	if m.Gateway != nil {
		return m.Gateway, nil
	}
	return &MockControllerGateway{}, nil
}

// MockCredentialCodec is a mock implementation of CredentialCodec
type MockCredentialCodec struct {
	EncodeFunc func(plaintext string) string
	DecodeFunc func(stored string) (string, error)
}

func (m *MockCredentialCodec) Encode(plaintext string) string {
	if m.EncodeFunc != nil {
		return m.EncodeFunc(plaintext)
	}
	return plaintext
}

func (m *MockCredentialCodec) Decode(stored string) (string, error) {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(stored)
	}
	return stored, nil
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	CreatePaymentFunc func(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*ports.CreatePaymentResult, error)
	VerifyPaymentFunc func(ctx context.Context, providerID string) (*ports.PaymentResult, error)
	RefundPaymentFunc func(ctx context.Context, providerID string) error
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*ports.CreatePaymentResult, error) {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, amount, currency, description, metadata)
	}
	return &ports.CreatePaymentResult{ProviderID: "pi_mock"}, nil
}

func (m *MockPaymentGateway) VerifyPayment(ctx context.Context, providerID string) (*ports.PaymentResult, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, providerID)
	}
	return &ports.PaymentResult{Status: "succeeded", Paid: true}, nil
}

func (m *MockPaymentGateway) RefundPayment(ctx context.Context, providerID string) error {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, providerID)
	}
	return nil
}

// MockSocialVerifier is a mock implementation of SocialVerifier
type MockSocialVerifier struct {
	VerifyFunc func(ctx context.Context, provider, accessToken string) (*ports.SocialUser, error)
}

func (m *MockSocialVerifier) Verify(ctx context.Context, provider, accessToken string) (*ports.SocialUser, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, provider, accessToken)
	}
	return &ports.SocialUser{ID: "social-1", Name: "Guest"}, nil
}

// MockVoucherService is a mock implementation of VoucherService
type MockVoucherService struct {
	GenerateFunc  func(ctx context.Context, actor *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error)
	ValidateFunc  func(ctx context.Context, code string) (*domain.Voucher, error)
	RedeemFunc    func(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error)
	ExpireOldFunc func(ctx context.Context) (int64, error)
	StatsFunc     func(ctx context.Context, locationID string) (*domain.VoucherStats, error)
	ListFunc      func(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error)
}

func (m *MockVoucherService) Generate(ctx context.Context, actor *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, actor, planID, quantity, batchName)
	}
	return &domain.VoucherBatch{}, nil
}

func (m *MockVoucherService) Validate(ctx context.Context, code string) (*domain.Voucher, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockVoucherService) Redeem(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, code, macAddress, info)
	}
	return nil, nil
}

func (m *MockVoucherService) ExpireOld(ctx context.Context) (int64, error) {
	if m.ExpireOldFunc != nil {
		return m.ExpireOldFunc(ctx)
	}
	return 0, nil
}

func (m *MockVoucherService) Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, locationID)
	}
	return &domain.VoucherStats{}, nil
}

func (m *MockVoucherService) List(ctx context.Context, filter ports.VoucherFilter) ([]domain.Voucher, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	CreateFunc          func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error)
	TerminateFunc       func(ctx context.Context, id, reason string) (*domain.Session, error)
	TerminateByMACFunc  func(ctx context.Context, macAddress string) (int64, error)
	CleanupExpiredFunc  func(ctx context.Context) (int64, error)
	PurgeTerminatedFunc func(ctx context.Context) (int64, error)
	GetFunc             func(ctx context.Context, id string) (*domain.Session, error)
	ActiveFunc          func(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error)
	HistoryFunc         func(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error)
	StatsFunc           func(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error)
	UpdateUsageFunc     func(ctx context.Context, id string, dataUsedMB float64) error
}

func (m *MockSessionService) Create(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &domain.Session{}, nil
}

func (m *MockSessionService) Terminate(ctx context.Context, id, reason string) (*domain.Session, error) {
	if m.TerminateFunc != nil {
		return m.TerminateFunc(ctx, id, reason)
	}
	return &domain.Session{}, nil
}

func (m *MockSessionService) TerminateByMAC(ctx context.Context, macAddress string) (int64, error) {
	if m.TerminateByMACFunc != nil {
		return m.TerminateByMACFunc(ctx, macAddress)
	}
	return 0, nil
}

func (m *MockSessionService) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

func (m *MockSessionService) PurgeTerminated(ctx context.Context) (int64, error) {
	if m.PurgeTerminatedFunc != nil {
		return m.PurgeTerminatedFunc(ctx)
	}
	return 0, nil
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSessionService) Active(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc(ctx, controllerID, macAddress)
	}
	return nil, nil
}

func (m *MockSessionService) History(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockSessionService) Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, controllerID, start, end)
	}
	return &domain.SessionStats{}, nil
}

func (m *MockSessionService) UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error {
	if m.UpdateUsageFunc != nil {
		return m.UpdateUsageFunc(ctx, id, dataUsedMB)
	}
	return nil
}
