package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type Service struct {
	controllers ports.ControllerRepository
	gateways    ports.GatewayFactory
	codec       ports.CredentialCodec
	log         *zap.Logger
}

func NewService(controllers ports.ControllerRepository, gateways ports.GatewayFactory, codec ports.CredentialCodec, log *zap.Logger) ports.ControllerService {
	return &Service{
		controllers: controllers,
		gateways:    gateways,
		codec:       codec,
		log:         log,
	}
}

func (s *Service) Register(ctx context.Context, c *domain.Controller, plainPassword string) error {
	if c.Name == "" || c.IPAddress == "" || c.Username == "" || plainPassword == "" {
		return fmt.Errorf("%w: name, address and credentials are required", domain.ErrInvalidInput)
	}
	if !domain.ValidIPAddress(c.IPAddress) {
		return fmt.Errorf("%w: invalid controller address", domain.ErrInvalidInput)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid controller port", domain.ErrInvalidInput)
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.ControllerStatusActive
	}
	c.Password = s.codec.Encode(plainPassword)
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.controllers.Save(ctx, c); err != nil {
		return err
	}

	s.log.Info("Controller registered",
		zap.String("controller_id", c.ID),
		zap.String("address", c.IPAddress),
	)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Controller, error) {
	c, err := s.controllers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrControllerNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, locationID string) ([]domain.Controller, error) {
	return s.controllers.FindAll(ctx, locationID)
}

// TestConnection probes the controller and records the outcome: a reachable
// controller becomes active with its reported version, an unreachable one
// is flagged error.
func (s *Service) TestConnection(ctx context.Context, id string) (*domain.ConnectionTest, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	gateway, err := s.gateways.ForController(c)
	if err != nil {
		return nil, err
	}

	result, err := gateway.TestConnection(ctx)
	if err != nil {
		return nil, err
	}

	if result.Success {
		if err := s.controllers.UpdateStatus(ctx, id, domain.ControllerStatusActive); err != nil {
			s.log.Warn("Failed to update controller status", zap.String("controller_id", id), zap.Error(err))
		}
		if err := s.controllers.UpdateLastSync(ctx, id, result.Version); err != nil {
			s.log.Warn("Failed to record controller sync", zap.String("controller_id", id), zap.Error(err))
		}
	} else {
		if err := s.controllers.UpdateStatus(ctx, id, domain.ControllerStatusError); err != nil {
			s.log.Warn("Failed to update controller status", zap.String("controller_id", id), zap.Error(err))
		}
	}

	return result, nil
}

func (s *Service) Clients(ctx context.Context, id string) ([]map[string]interface{}, error) {
	gateway, err := s.gatewayFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return gateway.GetClients(ctx)
}

func (s *Service) AccessPoints(ctx context.Context, id string) ([]map[string]interface{}, error) {
	gateway, err := s.gatewayFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return gateway.GetAccessPoints(ctx)
}

func (s *Service) Statistics(ctx context.Context, id string) (map[string]interface{}, error) {
	gateway, err := s.gatewayFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return gateway.GetStatistics(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.controllers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrControllerNotFound
	}

	if err := s.controllers.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Controller deleted", zap.String("controller_id", id))
	return nil
}

func (s *Service) gatewayFor(ctx context.Context, id string) (ports.ControllerGateway, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.gateways.ForController(c)
}
