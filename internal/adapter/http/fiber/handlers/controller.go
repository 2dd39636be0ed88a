package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type ControllerHandler struct {
	service ports.ControllerService
	log     *zap.Logger
}

func NewControllerHandler(service ports.ControllerService, log *zap.Logger) *ControllerHandler {
	return &ControllerHandler{
		service: service,
		log:     log,
	}
}

type RegisterControllerRequest struct {
	Name       string `json:"name"`
	IPAddress  string `json:"ip_address"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	SiteID     string `json:"site_id"`
	OmadacID   string `json:"omadac_id"`
	LocationID string `json:"location_id"`
}

func (h *ControllerHandler) Register(c *fiber.Ctx) error {
	var req RegisterControllerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	controller := &domain.Controller{
		Name:       req.Name,
		IPAddress:  req.IPAddress,
		Port:       req.Port,
		Username:   req.Username,
		SiteID:     req.SiteID,
		OmadacID:   req.OmadacID,
		LocationID: req.LocationID,
	}
	if err := h.service.Register(c.Context(), controller, req.Password); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(controller)
}

func (h *ControllerHandler) Get(c *fiber.Ctx) error {
	controller, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(controller)
}

func (h *ControllerHandler) List(c *fiber.Ctx) error {
	controllers, err := h.service.List(c.Context(), c.Query("location_id"))
	if err != nil {
		return err
	}
	return c.JSON(controllers)
}

func (h *ControllerHandler) TestConnection(c *fiber.Ctx) error {
	result, err := h.service.TestConnection(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *ControllerHandler) Clients(c *fiber.Ctx) error {
	clients, err := h.service.Clients(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

func (h *ControllerHandler) AccessPoints(c *fiber.Ctx) error {
	aps, err := h.service.AccessPoints(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(aps)
}

func (h *ControllerHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *ControllerHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
