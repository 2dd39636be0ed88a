package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type PaymentHandler struct {
	service  ports.PaymentService
	currency string
	log      *zap.Logger
}

func NewPaymentHandler(service ports.PaymentService, currency string, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		currency: currency,
		log:      log,
	}
}

type CreatePaymentRequest struct {
	PlanID   string `json:"plan_id"`
	Method   string `json:"method"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}
	method := domain.PaymentMethod(req.Method)
	if method == "" {
		method = domain.PaymentMethodStripe
	}

	payment, result, err := h.service.Create(c.Context(), req.PlanID, method, currency, req.Email, req.Phone)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":       payment,
		"client_secret": result.ClientSecret,
		"approve_url":   result.ApproveURL,
	})
}

type CompletePaymentRequest struct {
	ProviderID string `json:"provider_id"`
}

func (h *PaymentHandler) Complete(c *fiber.Ctx) error {
	var req CompletePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	payment, err := h.service.Complete(c.Context(), req.ProviderID)
	if err != nil {
		return err
	}
	return c.JSON(payment)
}

func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	payment, err := h.service.Refund(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payment)
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	payment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payment)
}
