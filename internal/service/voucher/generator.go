package voucher

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

// codeAlphabet excludes 0/O/1/I to keep printed codes unambiguous. Its
// length is 32, so reducing a random byte modulo the length is unbiased.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeGroups   = 3
	codeGroupLen = 4
)

// Generator draws voucher codes from a CSPRNG and re-draws on collision
// with an existing code, up to a fixed attempt budget.
type Generator struct {
	vouchers    ports.VoucherRepository
	maxAttempts int
}

func NewGenerator(vouchers ports.VoucherRepository, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	return &Generator{
		vouchers:    vouchers,
		maxAttempts: maxAttempts,
	}
}

// NewCode returns a code not currently present in storage. The existence
// check is advisory; the database unique index is the real arbiter.
func (g *Generator) NewCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		exists, err := g.vouchers.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrGenerationExhausted
}

func randomCode() (string, error) {
	raw := make([]byte, codeGroups*codeGroupLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("voucher: read random bytes: %w", err)
	}

	var b strings.Builder
	for i, c := range raw {
		if i > 0 && i%codeGroupLen == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String(), nil
}
