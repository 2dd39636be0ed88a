package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

type SessionHandler struct {
	service ports.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service ports.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

type CreateSessionRequest struct {
	ControllerID string         `json:"controller_id"`
	MACAddress   string         `json:"mac_address"`
	IPAddress    string         `json:"ip_address"`
	Username     string         `json:"username"`
	PlanID       string         `json:"plan_id"`
	VoucherID    string         `json:"voucher_id"`
	DeviceInfo   domain.JSONMap `json:"device_info"`
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.service.Create(c.Context(), ports.SessionCreateInput{
		ControllerID: req.ControllerID,
		MACAddress:   req.MACAddress,
		IPAddress:    req.IPAddress,
		Username:     req.Username,
		PlanID:       req.PlanID,
		VoucherID:    req.VoucherID,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

type TerminateSessionRequest struct {
	Reason string `json:"reason"`
}

func (h *SessionHandler) Terminate(c *fiber.Ctx) error {
	var req TerminateSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.service.Terminate(c.Context(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (h *SessionHandler) TerminateByMAC(c *fiber.Ctx) error {
	n, err := h.service.TerminateByMAC(c.Context(), c.Params("mac"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"terminated": n})
}

func (h *SessionHandler) Active(c *fiber.Ctx) error {
	sessions, err := h.service.Active(c.Context(), c.Query("controller_id"), c.Query("mac_address"))
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) History(c *fiber.Ctx) error {
	filter := ports.SessionFilter{
		ControllerID: c.Query("controller_id"),
		MACAddress:   c.Query("mac_address"),
		Status:       domain.SessionStatus(c.Query("status")),
		Limit:        c.QueryInt("limit", 100),
	}
	if start, err := time.Parse(time.RFC3339, c.Query("start_date")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse(time.RFC3339, c.Query("end_date")); err == nil {
		filter.EndDate = &end
	}

	sessions, err := h.service.History(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) Stats(c *fiber.Ctx) error {
	var start, end *time.Time
	if t, err := time.Parse(time.RFC3339, c.Query("start_date")); err == nil {
		start = &t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("end_date")); err == nil {
		end = &t
	}

	stats, err := h.service.Stats(c.Context(), c.Query("controller_id"), start, end)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

type UpdateUsageRequest struct {
	DataUsedMB float64 `json:"data_used_mb"`
}

func (h *SessionHandler) UpdateUsage(c *fiber.Ctx) error {
	var req UpdateUsageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.UpdateUsage(c.Context(), c.Params("id"), req.DataUsedMB); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
