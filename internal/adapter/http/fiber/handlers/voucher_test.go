package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/mocks"
)

func redeemApp(svc *mocks.MockVoucherService) *fiber.App {
	h := NewVoucherHandler(svc, zap.NewNop())
	app := fiber.New()
	app.Post("/api/v1/vouchers/:code/redeem", h.Redeem)
	return app
}

func TestRedeemReadsCodeFromPath(t *testing.T) {
	svc := &mocks.MockVoucherService{}
	var gotCode, gotMAC string
	svc.RedeemFunc = func(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
		gotCode = code
		gotMAC = macAddress
		return &domain.Voucher{ID: "v1", Code: code, Status: domain.VoucherStatusUsed}, nil
	}
	app := redeemApp(svc)

	req := httptest.NewRequest("POST", "/api/v1/vouchers/AB2D-EFGH-JK3M/redeem",
		strings.NewReader(`{"mac_address":"AA:BB:CC:DD:EE:FF"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if gotCode != "AB2D-EFGH-JK3M" {
		t.Errorf("Expected path code passed to the service, got %q", gotCode)
	}
	if gotMAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Expected body MAC passed to the service, got %q", gotMAC)
	}
}

func TestRedeemBodyCodeFallback(t *testing.T) {
	svc := &mocks.MockVoucherService{}
	var gotCode string
	svc.RedeemFunc = func(ctx context.Context, code, macAddress string, info domain.JSONMap) (*domain.Voucher, error) {
		gotCode = code
		return &domain.Voucher{ID: "v1", Code: code, Status: domain.VoucherStatusUsed}, nil
	}
	h := NewVoucherHandler(svc, zap.NewNop())
	app := fiber.New()
	app.Post("/api/v1/vouchers/redeem", h.Redeem)

	req := httptest.NewRequest("POST", "/api/v1/vouchers/redeem",
		strings.NewReader(`{"code":"AB2D-EFGH-JK3M","mac_address":"AA:BB:CC:DD:EE:FF"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if gotCode != "AB2D-EFGH-JK3M" {
		t.Errorf("Expected body code when no path parameter, got %q", gotCode)
	}
}
