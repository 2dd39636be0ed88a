package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/adapter/http/fiber/middleware"
	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type VoucherHandler struct {
	service ports.VoucherService
	log     *zap.Logger
}

func NewVoucherHandler(service ports.VoucherService, log *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		service: service,
		log:     log,
	}
}

type GenerateVouchersRequest struct {
	PlanID    string `json:"plan_id"`
	Quantity  int    `json:"quantity"`
	BatchName string `json:"batch_name"`
}

func (h *VoucherHandler) Generate(c *fiber.Ctx) error {
	var req GenerateVouchersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	batch, err := h.service.Generate(c.Context(), middleware.CurrentUser(c), req.PlanID, req.Quantity, req.BatchName)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(batch)
}

func (h *VoucherHandler) Validate(c *fiber.Ctx) error {
	code := c.Params("code")

	voucher, err := h.service.Validate(c.Context(), code)
	if err != nil {
		return err
	}

	return c.JSON(voucher)
}

type RedeemVoucherRequest struct {
	Code       string         `json:"code"`
	MACAddress string         `json:"mac_address"`
	DeviceInfo domain.JSONMap `json:"device_info"`
}

func (h *VoucherHandler) Redeem(c *fiber.Ctx) error {
	var req RedeemVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	// The code rides in the path; a body code is a legacy fallback.
	code := c.Params("code")
	if code == "" {
		code = req.Code
	}

	voucher, err := h.service.Redeem(c.Context(), code, req.MACAddress, req.DeviceInfo)
	if err != nil {
		return err
	}

	return c.JSON(voucher)
}

func (h *VoucherHandler) List(c *fiber.Ctx) error {
	filter := ports.VoucherFilter{
		Status:  domain.VoucherStatus(c.Query("status")),
		PlanID:  c.Query("plan_id"),
		BatchID: c.Query("batch_id"),
		Limit:   c.QueryInt("limit", 100),
	}

	vouchers, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(vouchers)
}

func (h *VoucherHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), c.Query("location_id"))
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

func (h *VoucherHandler) ExpireOld(c *fiber.Ctx) error {
	n, err := h.service.ExpireOld(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"expired": n})
}
