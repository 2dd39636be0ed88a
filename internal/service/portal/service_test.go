package portal

import (
	"context"
	"errors"
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

func testConfig() config.PortalConfig {
	return config.PortalConfig{
		FreeDuration:   30 * time.Minute,
		SocialDuration: 60 * time.Minute,
	}
}

type fixture struct {
	sessions    *mocks.MockSessionService
	vouchers    *mocks.MockVoucherService
	plans       *mocks.MockPlanRepository
	controllers *mocks.MockControllerRepository
	verifier    *mocks.MockSocialVerifier
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		sessions: &mocks.MockSessionService{},
		vouchers: &mocks.MockVoucherService{},
		plans:    &mocks.MockPlanRepository{},
		controllers: &mocks.MockControllerRepository{
			FindFirstActiveFunc: func(ctx context.Context) (*domain.Controller, error) {
				return &domain.Controller{ID: "ctrl-1", Status: domain.ControllerStatusActive}, nil
			},
		},
		verifier: &mocks.MockSocialVerifier{},
	}
	f.svc = NewService(f.sessions, f.vouchers, f.plans, f.controllers, f.verifier, testConfig(), newTestLogger())
	return f
}

func TestFreeAccessUsesPolicyDuration(t *testing.T) {
	f := newFixture()

	var created ports.SessionCreateInput
	f.sessions.CreateFunc = func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
		created = in
		return &domain.Session{ID: "s1", Status: domain.SessionStatusActive}, nil
	}
	f.plans.FindFreeFunc = func(ctx context.Context) (*domain.Plan, error) {
		return &domain.Plan{ID: "free-plan", Price: 0}, nil
	}

	session, err := f.svc.AuthenticateFree(context.Background(), FreeInput{
		MACAddress: "AA:BB:CC:DD:EE:FF",
		IPAddress:  "192.168.1.50",
		Email:      "guest@example.com",
	})
	if err != nil {
		t.Fatalf("AuthenticateFree failed: %v", err)
	}

	if session.ID != "s1" {
		t.Error("Expected the created session back")
	}
	if created.Duration != 30*time.Minute {
		t.Errorf("Expected 30m free duration, got %v", created.Duration)
	}
	if created.PlanID != "free-plan" {
		t.Errorf("Expected free plan to be attached, got %q", created.PlanID)
	}
	if created.ControllerID != "ctrl-1" {
		t.Errorf("Expected default controller, got %q", created.ControllerID)
	}
	if created.Username != "guest@example.com" {
		t.Errorf("Expected email as username, got %q", created.Username)
	}
}

func TestFreeAccessRequiresEmail(t *testing.T) {
	f := newFixture()

	for _, email := range []string{"", "not-an-email"} {
		_, err := f.svc.AuthenticateFree(context.Background(), FreeInput{
			MACAddress: "AA:BB:CC:DD:EE:FF",
			Email:      email,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Email %q: expected ErrInvalidInput, got %v", email, err)
		}
	}
}

func TestFreeAccessWithoutFreePlan(t *testing.T) {
	f := newFixture()

	var created ports.SessionCreateInput
	f.sessions.CreateFunc = func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
		created = in
		return &domain.Session{ID: "s1"}, nil
	}

	if _, err := f.svc.AuthenticateFree(context.Background(), FreeInput{
		MACAddress: "AA:BB:CC:DD:EE:FF",
		Email:      "guest@example.com",
	}); err != nil {
		t.Fatalf("AuthenticateFree failed: %v", err)
	}
	if created.PlanID != "" {
		t.Errorf("Expected no plan when none is configured, got %q", created.PlanID)
	}
}

func TestFreeAccessNoActiveController(t *testing.T) {
	f := newFixture()
	f.controllers.FindFirstActiveFunc = func(ctx context.Context) (*domain.Controller, error) {
		return nil, nil
	}

	_, err := f.svc.AuthenticateFree(context.Background(), FreeInput{
		MACAddress: "AA:BB:CC:DD:EE:FF",
		Email:      "guest@example.com",
	})
	if !errors.Is(err, domain.ErrControllerNotFound) {
		t.Errorf("Expected ErrControllerNotFound, got %v", err)
	}
}

func TestSocialAccessUsesPolicyDuration(t *testing.T) {
	f := newFixture()

	var created ports.SessionCreateInput
	f.sessions.CreateFunc = func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
		created = in
		return &domain.Session{ID: "s1"}, nil
	}
	f.verifier.VerifyFunc = func(ctx context.Context, provider, accessToken string) (*ports.SocialUser, error) {
		return &ports.SocialUser{ID: "fb-9", Name: "Guest", Email: "guest@social.example"}, nil
	}

	if _, err := f.svc.AuthenticateSocial(context.Background(), SocialInput{
		MACAddress:  "AA:BB:CC:DD:EE:FF",
		Provider:    "facebook",
		AccessToken: "token",
	}); err != nil {
		t.Fatalf("AuthenticateSocial failed: %v", err)
	}

	if created.Duration != 60*time.Minute {
		t.Errorf("Expected 60m social duration, got %v", created.Duration)
	}
	if created.Username != "guest@social.example" {
		t.Errorf("Expected provider email as username, got %q", created.Username)
	}
	if created.DeviceInfo["social_provider"] != "facebook" {
		t.Error("Expected provider recorded in device info")
	}
}

func TestSocialAccessRejectsBadToken(t *testing.T) {
	f := newFixture()
	f.verifier.VerifyFunc = func(ctx context.Context, provider, accessToken string) (*ports.SocialUser, error) {
		return nil, domain.ErrAuthenticationFailed
	}

	created := false
	f.sessions.CreateFunc = func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
		created = true
		return nil, nil
	}

	_, err := f.svc.AuthenticateSocial(context.Background(), SocialInput{
		MACAddress:  "AA:BB:CC:DD:EE:FF",
		Provider:    "facebook",
		AccessToken: "bad",
	})
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed, got %v", err)
	}
	if created {
		t.Error("No session may be created for a rejected token")
	}
}

func TestVoucherAccessRunsOnPurchasedHours(t *testing.T) {
	f := newFixture()

	f.vouchers.RedeemFunc = func(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
		return &domain.Voucher{
			ID:            "v1",
			Code:          code,
			PlanID:        "plan-1",
			Status:        domain.VoucherStatusUsed,
			DurationHours: 12,
		}, nil
	}

	var created ports.SessionCreateInput
	f.sessions.CreateFunc = func(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
		created = in
		return &domain.Session{ID: "s1"}, nil
	}

	if _, err := f.svc.AuthenticateVoucher(context.Background(), VoucherInput{
		MACAddress: "AA:BB:CC:DD:EE:FF",
		Code:       "AAAA-BBBB-CCCC",
	}); err != nil {
		t.Fatalf("AuthenticateVoucher failed: %v", err)
	}

	if created.Duration != 12*time.Hour {
		t.Errorf("Expected 12h from voucher, got %v", created.Duration)
	}
	if created.VoucherID != "v1" || created.PlanID != "plan-1" {
		t.Errorf("Expected voucher and plan linkage, got %+v", created)
	}
}

func TestVoucherAccessRejectionPropagates(t *testing.T) {
	f := newFixture()
	f.vouchers.RedeemFunc = func(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
		return nil, domain.ErrVoucherAlreadyUsed
	}

	_, err := f.svc.AuthenticateVoucher(context.Background(), VoucherInput{
		MACAddress: "AA:BB:CC:DD:EE:FF",
		Code:       "AAAA-BBBB-CCCC",
	})
	if !errors.Is(err, domain.ErrVoucherAlreadyUsed) {
		t.Errorf("Expected ErrVoucherAlreadyUsed, got %v", err)
	}
}
