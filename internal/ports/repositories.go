package ports

import (
	"context"
	"time"

	"github.com/wifight/wifight/internal/domain"
)

// VoucherFilter narrows voucher listings.
type VoucherFilter struct {
	Status  domain.VoucherStatus
	PlanID  string
	BatchID string
	Limit   int
}

type VoucherRepository interface {
	// CreateBatch inserts all vouchers in one transaction. Either every
	// voucher is created or none is; a unique-index collision surfaces as
	// domain.ErrDuplicateCode.
	CreateBatch(ctx context.Context, vouchers []*domain.Voucher) error
	FindByID(ctx context.Context, id string) (*domain.Voucher, error)
	FindByCode(ctx context.Context, code string) (*domain.Voucher, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// MarkUsed performs the atomic unused->used transition. It returns false
	// when the voucher was no longer unused at write time, which is how
	// exactly-one-winner is enforced under concurrent redemption.
	MarkUsed(ctx context.Context, id, usedBy string, at time.Time) (bool, error)
	// MarkExpired transitions unused->expired; a no-op on terminal rows.
	MarkExpired(ctx context.Context, id string) error
	// ExpireDue bulk-expires unused vouchers whose expires_at is before now
	// and reports how many rows changed. Idempotent.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	FindAll(ctx context.Context, filter VoucherFilter) ([]domain.Voucher, error)
	Stats(ctx context.Context, locationID string) (*domain.VoucherStats, error)
	CountUnusedByPlan(ctx context.Context, planID string) (int64, error)
}

// SessionFilter narrows session history queries.
type SessionFilter struct {
	ControllerID string
	MACAddress   string
	Status       domain.SessionStatus
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
}

type SessionRepository interface {
	Save(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	FindActive(ctx context.Context, controllerID, macAddress string) ([]domain.Session, error)
	// Terminate conditionally moves an active session to the given terminal
	// status, stamping end_time and duration_minutes in the same statement.
	// Returns false when the session was not active.
	Terminate(ctx context.Context, id string, status domain.SessionStatus, endTime time.Time) (bool, error)
	TerminateByMAC(ctx context.Context, macAddress string, endTime time.Time) (int64, error)
	// ExpireStartedBefore moves sessions active since before the cutoff to
	// expired. Idempotent.
	ExpireStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	UpdateUsage(ctx context.Context, id string, dataUsedMB float64) error
	History(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	Stats(ctx context.Context, controllerID string, start, end *time.Time) (*domain.SessionStats, error)
	CountActiveByPlan(ctx context.Context, planID string) (int64, error)
}

type PlanRepository interface {
	Save(ctx context.Context, p *domain.Plan) error
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	FindAll(ctx context.Context, locationID string, status domain.PlanStatus) ([]domain.Plan, error)
	// FindFree returns the cheapest zero-price active plan, nil when none.
	FindFree(ctx context.Context) (*domain.Plan, error)
	Delete(ctx context.Context, id string) error
}

type ControllerRepository interface {
	Save(ctx context.Context, c *domain.Controller) error
	FindByID(ctx context.Context, id string) (*domain.Controller, error)
	FindAll(ctx context.Context, locationID string) ([]domain.Controller, error)
	// FindFirstActive is the portal's default controller pick.
	FindFirstActive(ctx context.Context) (*domain.Controller, error)
	UpdateStatus(ctx context.Context, id string, status domain.ControllerStatus) error
	UpdateLastSync(ctx context.Context, id string, version string) error
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	Save(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error)
	// MarkCompleted conditionally flips pending to completed; false when the
	// payment was not pending anymore. At most one caller wins the flip.
	MarkCompleted(ctx context.Context, providerID string, at time.Time) (bool, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
