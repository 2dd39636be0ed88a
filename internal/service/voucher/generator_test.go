package voucher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/mocks"
)

func TestRandomCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode failed: %v", err)
		}
		if !domain.ValidVoucherCode(code) {
			t.Fatalf("Generated code %q does not match the expected format", code)
		}
		for _, group := range strings.Split(code, "-") {
			for _, ch := range group {
				if !strings.ContainsRune(codeAlphabet, ch) {
					t.Fatalf("Code %q contains character %q outside the alphabet", code, ch)
				}
			}
		}
	}
}

func TestRandomCodeExcludesAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I"} {
		if strings.Contains(codeAlphabet, forbidden) {
			t.Errorf("Alphabet must not contain %q", forbidden)
		}
	}
}

func TestNewCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	repo := &mocks.MockVoucherRepository{
		CodeExistsFunc: func(ctx context.Context, code string) (bool, error) {
			calls++
			return calls <= 2, nil
		},
	}

	gen := NewGenerator(repo, 20)
	code, err := gen.NewCode(context.Background())
	if err != nil {
		t.Fatalf("NewCode failed: %v", err)
	}
	if code == "" {
		t.Fatal("Expected a code")
	}
	if calls != 3 {
		t.Errorf("Expected 3 existence checks, got %d", calls)
	}
}

func TestNewCodeExhaustsAttemptBudget(t *testing.T) {
	calls := 0
	repo := &mocks.MockVoucherRepository{
		CodeExistsFunc: func(ctx context.Context, code string) (bool, error) {
			calls++
			return true, nil
		},
	}

	gen := NewGenerator(repo, 5)
	_, err := gen.NewCode(context.Background())
	if !errors.Is(err, domain.ErrGenerationExhausted) {
		t.Errorf("Expected ErrGenerationExhausted, got %v", err)
	}
	if calls != 5 {
		t.Errorf("Expected exactly 5 attempts, got %d", calls)
	}
}

func TestNewCodePropagatesRepositoryError(t *testing.T) {
	repoErr := errors.New("connection lost")
	repo := &mocks.MockVoucherRepository{
		CodeExistsFunc: func(ctx context.Context, code string) (bool, error) {
			return false, repoErr
		},
	}

	gen := NewGenerator(repo, 20)
	if _, err := gen.NewCode(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("Expected repository error, got %v", err)
	}
}
