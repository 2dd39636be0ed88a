package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type PlanHandler struct {
	service ports.PlanService
	log     *zap.Logger
}

func NewPlanHandler(service ports.PlanService, log *zap.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var plan domain.Plan
	if err := c.BodyParser(&plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.Create(c.Context(), &plan); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) Get(c *fiber.Ctx) error {
	plan, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.service.List(c.Context(), c.Query("location_id"), domain.PlanStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
