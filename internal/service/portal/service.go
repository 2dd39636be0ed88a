package portal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/observability/telemetry"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

// FreeInput is the captive portal's free-access form.
type FreeInput struct {
	ControllerID string
	MACAddress   string
	IPAddress    string
	Email        string
	DeviceInfo   domain.JSONMap
}

// SocialInput authenticates through a social provider's access token.
type SocialInput struct {
	ControllerID string
	MACAddress   string
	IPAddress    string
	Provider     string
	AccessToken  string
	DeviceInfo   domain.JSONMap
}

// VoucherInput redeems a purchased code at the portal.
type VoucherInput struct {
	ControllerID string
	MACAddress   string
	IPAddress    string
	Code         string
	DeviceInfo   domain.JSONMap
}

// Service drives the three guest access paths. Free and social sessions run
// on portal policy durations; voucher sessions run on the purchased hours.
type Service struct {
	sessions    ports.SessionService
	vouchers    ports.VoucherService
	plans       ports.PlanRepository
	controllers ports.ControllerRepository
	verifier    ports.SocialVerifier
	cfg         config.PortalConfig
	log         *zap.Logger
}

func NewService(
	sessions ports.SessionService,
	vouchers ports.VoucherService,
	plans ports.PlanRepository,
	controllers ports.ControllerRepository,
	verifier ports.SocialVerifier,
	cfg config.PortalConfig,
	log *zap.Logger,
) *Service {
	return &Service{
		sessions:    sessions,
		vouchers:    vouchers,
		plans:       plans,
		controllers: controllers,
		verifier:    verifier,
		cfg:         cfg,
		log:         log,
	}
}

func (s *Service) AuthenticateFree(ctx context.Context, in FreeInput) (*domain.Session, error) {
	if in.Email == "" || !domain.ValidEmail(in.Email) {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("free", "rejected").Inc()
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}

	controllerID, err := s.resolveController(ctx, in.ControllerID)
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("free", "error").Inc()
		return nil, err
	}

	planID := ""
	if plan, err := s.plans.FindFree(ctx); err != nil {
		return nil, err
	} else if plan != nil {
		planID = plan.ID
	}

	session, err := s.sessions.Create(ctx, ports.SessionCreateInput{
		ControllerID: controllerID,
		MACAddress:   in.MACAddress,
		IPAddress:    in.IPAddress,
		Username:     in.Email,
		PlanID:       planID,
		Duration:     s.cfg.FreeDuration,
		DeviceInfo:   in.DeviceInfo,
	})
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("free", "error").Inc()
		return nil, err
	}

	telemetry.PortalAuthenticationsTotal.WithLabelValues("free", "success").Inc()
	s.log.Info("Free portal access granted",
		zap.String("session_id", session.ID),
		zap.String("mac_address", in.MACAddress),
	)
	return session, nil
}

func (s *Service) AuthenticateSocial(ctx context.Context, in SocialInput) (*domain.Session, error) {
	user, err := s.verifier.Verify(ctx, in.Provider, in.AccessToken)
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("social", "rejected").Inc()
		return nil, err
	}

	controllerID, err := s.resolveController(ctx, in.ControllerID)
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("social", "error").Inc()
		return nil, err
	}

	username := user.Email
	if username == "" {
		username = fmt.Sprintf("%s:%s", in.Provider, user.ID)
	}

	info := in.DeviceInfo
	if info == nil {
		info = domain.JSONMap{}
	}
	info["social_provider"] = in.Provider
	info["social_name"] = user.Name

	session, err := s.sessions.Create(ctx, ports.SessionCreateInput{
		ControllerID: controllerID,
		MACAddress:   in.MACAddress,
		IPAddress:    in.IPAddress,
		Username:     username,
		Duration:     s.cfg.SocialDuration,
		DeviceInfo:   info,
	})
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("social", "error").Inc()
		return nil, err
	}

	telemetry.PortalAuthenticationsTotal.WithLabelValues("social", "success").Inc()
	s.log.Info("Social portal access granted",
		zap.String("session_id", session.ID),
		zap.String("provider", in.Provider),
	)
	return session, nil
}

// AuthenticateVoucher redeems first, then opens the session for the
// voucher's purchased duration. A session creation failure after a
// successful redemption does not restore the voucher; the redemption
// already happened and the device can retry the portal.
func (s *Service) AuthenticateVoucher(ctx context.Context, in VoucherInput) (*domain.Session, error) {
	voucher, err := s.vouchers.Redeem(ctx, in.Code, in.MACAddress, in.DeviceInfo)
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("voucher", "rejected").Inc()
		return nil, err
	}

	controllerID, err := s.resolveController(ctx, in.ControllerID)
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("voucher", "error").Inc()
		return nil, err
	}

	session, err := s.sessions.Create(ctx, ports.SessionCreateInput{
		ControllerID: controllerID,
		MACAddress:   in.MACAddress,
		IPAddress:    in.IPAddress,
		PlanID:       voucher.PlanID,
		VoucherID:    voucher.ID,
		Duration:     time.Duration(voucher.DurationHours) * time.Hour,
		DeviceInfo:   in.DeviceInfo,
	})
	if err != nil {
		telemetry.PortalAuthenticationsTotal.WithLabelValues("voucher", "error").Inc()
		return nil, err
	}

	telemetry.PortalAuthenticationsTotal.WithLabelValues("voucher", "success").Inc()
	s.log.Info("Voucher portal access granted",
		zap.String("session_id", session.ID),
		zap.String("voucher_id", voucher.ID),
	)
	return session, nil
}

// resolveController defaults to the first active controller, the
// single-controller deployment's common case.
func (s *Service) resolveController(ctx context.Context, controllerID string) (string, error) {
	if controllerID != "" {
		return controllerID, nil
	}

	controller, err := s.controllers.FindFirstActive(ctx)
	if err != nil {
		return "", err
	}
	if controller == nil {
		return "", domain.ErrControllerNotFound
	}
	return controller.ID, nil
}
