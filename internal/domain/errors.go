package domain

import (
	"errors"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses; services wrap them with fmt.Errorf("...: %w", err) for context.
var (
	// ErrInvalidInput covers malformed client input: bad MAC, bad voucher
	// code format, out-of-range quantity, missing required field.
	ErrInvalidInput = errors.New("invalid input")

	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanInUse          = errors.New("plan has unused vouchers or active sessions")
	ErrControllerNotFound = errors.New("controller not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrVoucherNotFound    = errors.New("invalid voucher code")
	ErrVoucherAlreadyUsed = errors.New("voucher already used")
	ErrVoucherExpired     = errors.New("voucher has expired")
	ErrDuplicateCode      = errors.New("voucher code already exists")

	// ErrGenerationExhausted means the code generator hit its retry budget.
	// In practice this signals alphabet-space exhaustion or a broken RNG.
	ErrGenerationExhausted = errors.New("could not generate a unique voucher code")

	ErrSessionNotActive = errors.New("session is not active")

	// Controller gateway failures. The distinction matters: an unreachable
	// or failing controller is an infrastructure problem, never a business
	// denial of the client being authorized.
	ErrGatewayUnavailable   = errors.New("controller unreachable")
	ErrAuthenticationFailed = errors.New("controller authentication failed")

	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrForbidden           = errors.New("operation not permitted for role")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
