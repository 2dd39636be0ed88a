package ports

import (
	"context"
	"time"

	"github.com/wifight/wifight/internal/domain"
)

// ControllerGateway adapts one network controller's remote API. An instance
// is scoped to a single controller and caches its auth token only for its
// own lifetime; tokens never cross controller boundaries.
//
// Error contract: login failures surface domain.ErrAuthenticationFailed,
// transport failures and controller-side 5xx surface
// domain.ErrGatewayUnavailable. A controller business rejection (API error
// code) is returned as an ordinary error carrying the controller's message.
type ControllerGateway interface {
	// AuthorizeClient lets the device's traffic through for the duration.
	// Upload/download limits are Kbps; zero means unlimited.
	AuthorizeClient(ctx context.Context, mac string, duration time.Duration, uploadKbps, downloadKbps int) error
	// BlockClient revokes a device's authorization.
	BlockClient(ctx context.Context, mac string) error
	// TestConnection probes the API with the stored credentials without
	// touching client authorization state.
	TestConnection(ctx context.Context) (*domain.ConnectionTest, error)
	GetStatistics(ctx context.Context) (map[string]interface{}, error)
	GetAccessPoints(ctx context.Context) ([]map[string]interface{}, error)
	GetClients(ctx context.Context) ([]map[string]interface{}, error)
	Logout(ctx context.Context) error
}

// GatewayFactory builds a gateway per controller record, decoding stored
// credentials on the way. One gateway per logical operation.
type GatewayFactory interface {
	ForController(c *domain.Controller) (ControllerGateway, error)
}

// CredentialCodec reversibly encodes controller credentials at rest. The
// narrow interface exists so at-rest protection can be strengthened without
// touching callers.
type CredentialCodec interface {
	Encode(plaintext string) string
	Decode(stored string) (string, error)
}
