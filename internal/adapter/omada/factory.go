package omada

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

// Factory builds one gateway per controller record. Gateways are not pooled;
// a session token lives and dies with the gateway instance that obtained it.
type Factory struct {
	cfg   config.ControllerConfig
	codec ports.CredentialCodec
	log   *zap.Logger
}

func NewFactory(cfg config.ControllerConfig, codec ports.CredentialCodec, log *zap.Logger) ports.GatewayFactory {
	return &Factory{
		cfg:   cfg,
		codec: codec,
		log:   log,
	}
}

func (f *Factory) ForController(c *domain.Controller) (ports.ControllerGateway, error) {
	password, err := f.codec.Decode(c.Password)
	if err != nil {
		return nil, fmt.Errorf("omada: controller %s credentials: %w", c.ID, err)
	}

	clientCfg := Config{
		Host:               c.IPAddress,
		Port:               c.Port,
		Username:           c.Username,
		Password:           password,
		SiteID:             c.SiteID,
		OmadacID:           c.OmadacID,
		Timeout:            f.cfg.Timeout,
		InsecureSkipVerify: f.cfg.InsecureSkipVerify,
	}
	breakerCfg := BreakerConfig{
		MaxRequests: f.cfg.Breaker.MaxRequests,
		Interval:    f.cfg.Breaker.Interval,
		Timeout:     f.cfg.Breaker.Timeout,
		MinRequests: f.cfg.Breaker.MinRequests,
		FailureRate: f.cfg.Breaker.FailureRate,
	}

	return NewClient(clientCfg, breakerCfg, f.log), nil
}
