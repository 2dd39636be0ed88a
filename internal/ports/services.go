package ports

import (
	"context"
	"time"

	"github.com/wifight/wifight/internal/domain"
)

type VoucherService interface {
	// Generate creates a batch of vouchers for a plan. actor may be nil for
	// system-initiated generation (payment completion); otherwise the role
	// must be admin or manager. Quantity is bounded 1..1000. All-or-nothing.
	Generate(ctx context.Context, actor *domain.User, planID string, quantity int, batchName string) (*domain.VoucherBatch, error)
	// Validate checks a code without consuming it. It returns one of
	// ErrVoucherNotFound / ErrVoucherAlreadyUsed / ErrVoucherExpired as the
	// reason; a past expires_at is persisted as expired on this read path.
	Validate(ctx context.Context, code string) (*domain.Voucher, error)
	// Redeem consumes a voucher for a device. At most one of any number of
	// concurrent attempts on the same code succeeds.
	Redeem(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error)
	ExpireOld(ctx context.Context) (int64, error)
	Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error)
	List(ctx context.Context, filter VoucherFilter) ([]domain.Voucher, error)
}

// SessionCreateInput carries everything needed to open an access window.
// Duration overrides the plan/voucher duration when set (portal policy
// durations for free and social access).
type SessionCreateInput struct {
	ControllerID string
	MACAddress   string
	IPAddress    string
	Username     string
	PlanID       string
	VoucherID    string
	Duration     time.Duration
	DeviceInfo   domain.JSONMap
}

type SessionService interface {
	// Create writes the session record first, then authorizes the device on
	// the controller. A gateway failure is reported on the controller's own
	// status, never rolled back into the session.
	Create(ctx context.Context, in SessionCreateInput) (*domain.Session, error)
	Terminate(ctx context.Context, id, reason string) (*domain.Session, error)
	TerminateByMAC(ctx context.Context, macAddress string) (int64, error)
	CleanupExpired(ctx context.Context) (int64, error)
	PurgeTerminated(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Active(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error)
	History(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error)
	UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error
}

type PlanService interface {
	Create(ctx context.Context, p *domain.Plan) error
	Get(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error)
	// Delete refuses while unused vouchers or active sessions reference the
	// plan (ErrPlanInUse).
	Delete(ctx context.Context, id string) error
}

type ControllerService interface {
	Register(ctx context.Context, c *domain.Controller, plainPassword string) error
	Get(ctx context.Context, id string) (*domain.Controller, error)
	List(ctx context.Context, locationID string) ([]domain.Controller, error)
	// TestConnection probes the controller and records the outcome on its
	// status/version/last_sync fields.
	TestConnection(ctx context.Context, id string) (*domain.ConnectionTest, error)
	Clients(ctx context.Context, id string) ([]map[string]interface{}, error)
	AccessPoints(ctx context.Context, id string) ([]map[string]interface{}, error)
	Statistics(ctx context.Context, id string) (map[string]interface{}, error)
	Delete(ctx context.Context, id string) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, user *domain.User) error
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// SocialUser is the identity a social provider vouches for.
type SocialUser struct {
	ID    string
	Name  string
	Email string
}

// SocialVerifier checks a provider access token and resolves the account
// behind it.
type SocialVerifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*SocialUser, error)
}
