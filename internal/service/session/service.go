package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/adapter/queue"
	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/observability/telemetry"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

type Service struct {
	sessions    ports.SessionRepository
	controllers ports.ControllerRepository
	vouchers    ports.VoucherRepository
	plans       ports.PlanRepository
	gateways    ports.GatewayFactory
	queue       queue.MessageQueue
	cfg         config.SessionConfig
	log         *zap.Logger
}

func NewService(
	sessions ports.SessionRepository,
	controllers ports.ControllerRepository,
	vouchers ports.VoucherRepository,
	plans ports.PlanRepository,
	gateways ports.GatewayFactory,
	q queue.MessageQueue,
	cfg config.SessionConfig,
	log *zap.Logger,
) ports.SessionService {
	return &Service{
		sessions:    sessions,
		controllers: controllers,
		vouchers:    vouchers,
		plans:       plans,
		gateways:    gateways,
		queue:       q,
		cfg:         cfg,
		log:         log,
	}
}

// Create opens an access window. The session row is the system of record:
// it is written before the controller is asked to authorize the device, and
// a controller failure is reported on the controller's status, not by
// rolling the session back.
func (s *Service) Create(ctx context.Context, in ports.SessionCreateInput) (*domain.Session, error) {
	if !domain.ValidMACAddress(in.MACAddress) {
		return nil, fmt.Errorf("%w: invalid MAC address", domain.ErrInvalidInput)
	}
	if in.IPAddress != "" && !domain.ValidIPAddress(in.IPAddress) {
		return nil, fmt.Errorf("%w: invalid IP address", domain.ErrInvalidInput)
	}

	controller, err := s.controllers.FindByID(ctx, in.ControllerID)
	if err != nil {
		return nil, err
	}
	if controller == nil {
		return nil, domain.ErrControllerNotFound
	}

	duration, plan, err := s.resolveDuration(ctx, in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	// DurationMinutes stays zero here: it records elapsed time and is only
	// stamped when the session ends. The grant goes to the controller.
	session := &domain.Session{
		ID:           uuid.New().String(),
		ControllerID: controller.ID,
		MACAddress:   in.MACAddress,
		IPAddress:    in.IPAddress,
		Username:     in.Username,
		StartTime:    now,
		Status:       domain.SessionStatusActive,
		DeviceInfo:   in.DeviceInfo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.PlanID != "" {
		session.PlanID = &in.PlanID
	}
	if in.VoucherID != "" {
		session.VoucherID = &in.VoucherID
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	telemetry.ActiveSessions.Inc()
	s.publish("session.created", map[string]interface{}{
		"session_id":    session.ID,
		"controller_id": session.ControllerID,
		"mac_address":   session.MACAddress,
		"plan_id":       in.PlanID,
		"voucher_id":    in.VoucherID,
		"start_time":    session.StartTime,
	})

	uploadKbps, downloadKbps := 0, 0
	if plan != nil {
		uploadKbps = plan.BandwidthUp
		downloadKbps = plan.BandwidthDown
	}
	s.authorize(ctx, controller, session, duration, uploadKbps, downloadKbps)

	return session, nil
}

// resolveDuration picks, in order: the explicit portal duration, the
// voucher's purchased hours, the plan's hours, the configured default.
// The configured ceiling caps all of them.
func (s *Service) resolveDuration(ctx context.Context, in ports.SessionCreateInput) (time.Duration, *domain.Plan, error) {
	var plan *domain.Plan
	var err error
	if in.PlanID != "" {
		plan, err = s.plans.FindByID(ctx, in.PlanID)
		if err != nil {
			return 0, nil, err
		}
		if plan == nil {
			return 0, nil, domain.ErrPlanNotFound
		}
	}

	duration := in.Duration
	if duration <= 0 && in.VoucherID != "" {
		voucher, err := s.vouchers.FindByID(ctx, in.VoucherID)
		if err != nil {
			return 0, nil, err
		}
		if voucher != nil && voucher.DurationHours > 0 {
			duration = time.Duration(voucher.DurationHours) * time.Hour
		}
	}
	if duration <= 0 && plan != nil && plan.DurationHours > 0 {
		duration = time.Duration(plan.DurationHours) * time.Hour
	}
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}
	if s.cfg.MaxDuration > 0 && duration > s.cfg.MaxDuration {
		duration = s.cfg.MaxDuration
	}
	return duration, plan, nil
}

func (s *Service) authorize(ctx context.Context, controller *domain.Controller, session *domain.Session, duration time.Duration, uploadKbps, downloadKbps int) {
	gateway, err := s.gateways.ForController(controller)
	if err == nil {
		err = gateway.AuthorizeClient(ctx, session.MACAddress, duration, uploadKbps, downloadKbps)
	}
	if err != nil {
		s.log.Error("Controller authorization failed, session kept",
			zap.String("session_id", session.ID),
			zap.String("controller_id", controller.ID),
			zap.Error(err),
		)
		if err := s.controllers.UpdateStatus(ctx, controller.ID, domain.ControllerStatusError); err != nil {
			s.log.Error("Failed to flag controller error", zap.String("controller_id", controller.ID), zap.Error(err))
		}
		return
	}

	if err := s.controllers.UpdateLastSync(ctx, controller.ID, ""); err != nil {
		s.log.Warn("Failed to record controller sync", zap.String("controller_id", controller.ID), zap.Error(err))
	}
}

func (s *Service) Terminate(ctx context.Context, id, reason string) (*domain.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	now := time.Now()
	terminated, err := s.sessions.Terminate(ctx, id, domain.SessionStatusTerminated, now)
	if err != nil {
		return nil, err
	}
	if !terminated {
		return nil, domain.ErrSessionNotActive
	}

	session.Status = domain.SessionStatusTerminated
	session.EndTime = &now
	session.DurationMinutes = int(now.Sub(session.StartTime).Minutes())

	telemetry.ActiveSessions.Dec()
	s.deauthorize(ctx, session.ControllerID, session.MACAddress)
	s.publish("session.terminated", map[string]interface{}{
		"session_id":  session.ID,
		"mac_address": session.MACAddress,
		"reason":      reason,
		"end_time":    now,
	})

	s.log.Info("Session terminated",
		zap.String("session_id", id),
		zap.String("reason", reason),
	)
	return session, nil
}

func (s *Service) TerminateByMAC(ctx context.Context, macAddress string) (int64, error) {
	if !domain.ValidMACAddress(macAddress) {
		return 0, fmt.Errorf("%w: invalid MAC address", domain.ErrInvalidInput)
	}

	// Deauthorize on every controller that has an active session for the MAC.
	active, err := s.sessions.FindActive(ctx, "", macAddress)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	n, err := s.sessions.TerminateByMAC(ctx, macAddress, now)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	telemetry.ActiveSessions.Sub(float64(n))
	seen := make(map[string]bool)
	for _, sess := range active {
		if seen[sess.ControllerID] {
			continue
		}
		seen[sess.ControllerID] = true
		s.deauthorize(ctx, sess.ControllerID, macAddress)
	}

	s.publish("session.terminated", map[string]interface{}{
		"mac_address": macAddress,
		"count":       n,
		"end_time":    now,
	})
	return n, nil
}

// deauthorize asks the controller to drop the device. Best-effort: the
// session is already terminated in storage and the controller will drop the
// client on its own when the authorized duration lapses.
func (s *Service) deauthorize(ctx context.Context, controllerID, macAddress string) {
	controller, err := s.controllers.FindByID(ctx, controllerID)
	if err != nil || controller == nil {
		return
	}
	gateway, err := s.gateways.ForController(controller)
	if err == nil {
		err = gateway.BlockClient(ctx, macAddress)
	}
	if err != nil {
		s.log.Warn("Controller deauthorize failed",
			zap.String("controller_id", controllerID),
			zap.String("mac_address", macAddress),
			zap.Error(err),
		)
	}
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.MaxDuration)
	n, err := s.sessions.ExpireStartedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		telemetry.ActiveSessions.Sub(float64(n))
		s.log.Info("Expired overrunning sessions", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) PurgeTerminated(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.TerminatedRetention)
	n, err := s.sessions.DeleteTerminatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Purged old terminated sessions", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Active(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error) {
	return s.sessions.FindActive(ctx, controllerID, macAddress)
}

func (s *Service) History(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error) {
	return s.sessions.History(ctx, filter)
}

func (s *Service) Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error) {
	return s.sessions.Stats(ctx, controllerID, start, end)
}

func (s *Service) UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error {
	if dataUsedMB < 0 {
		return fmt.Errorf("%w: negative data usage", domain.ErrInvalidInput)
	}
	return s.sessions.UpdateUsage(ctx, id, dataUsedMB)
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
