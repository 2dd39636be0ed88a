package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/service/portal"
)

// PortalHandler serves the captive portal's guest-facing endpoints. These
// routes run unauthenticated: the guest has no account, only a device.
type PortalHandler struct {
	service *portal.Service
	log     *zap.Logger
}

func NewPortalHandler(service *portal.Service, log *zap.Logger) *PortalHandler {
	return &PortalHandler{
		service: service,
		log:     log,
	}
}

type FreeAccessRequest struct {
	ControllerID string         `json:"controller_id"`
	MACAddress   string         `json:"mac_address"`
	IPAddress    string         `json:"ip_address"`
	Email        string         `json:"email"`
	DeviceInfo   domain.JSONMap `json:"device_info"`
}

func (h *PortalHandler) Free(c *fiber.Ctx) error {
	var req FreeAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.service.AuthenticateFree(c.Context(), portal.FreeInput{
		ControllerID: req.ControllerID,
		MACAddress:   req.MACAddress,
		IPAddress:    req.IPAddress,
		Email:        req.Email,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

type SocialAccessRequest struct {
	ControllerID string         `json:"controller_id"`
	MACAddress   string         `json:"mac_address"`
	IPAddress    string         `json:"ip_address"`
	Provider     string         `json:"provider"`
	AccessToken  string         `json:"access_token"`
	DeviceInfo   domain.JSONMap `json:"device_info"`
}

func (h *PortalHandler) Social(c *fiber.Ctx) error {
	var req SocialAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.service.AuthenticateSocial(c.Context(), portal.SocialInput{
		ControllerID: req.ControllerID,
		MACAddress:   req.MACAddress,
		IPAddress:    req.IPAddress,
		Provider:     req.Provider,
		AccessToken:  req.AccessToken,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

type VoucherAccessRequest struct {
	ControllerID string         `json:"controller_id"`
	MACAddress   string         `json:"mac_address"`
	IPAddress    string         `json:"ip_address"`
	Code         string         `json:"code"`
	DeviceInfo   domain.JSONMap `json:"device_info"`
}

func (h *PortalHandler) Voucher(c *fiber.Ctx) error {
	var req VoucherAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.service.AuthenticateVoucher(c.Context(), portal.VoucherInput{
		ControllerID: req.ControllerID,
		MACAddress:   req.MACAddress,
		IPAddress:    req.IPAddress,
		Code:         req.Code,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}
