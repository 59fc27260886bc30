package handlers

import (
	"resellscan/internal/dto"
	"resellscan/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ScanHandler struct {
	scanService *service.ScanService
	logger      *zap.Logger
}

func NewScanHandler(scanService *service.ScanService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
		logger:      logger,
	}
}

// Scan godoc
// @Summary Look up a scanned barcode
// @Description Resolve a barcode against the catalog and return product, pricing and a buy/skip recommendation
// @Tags scan
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Scan request"
// @Security Bearer
// @Success 200 {object} dto.ScanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/scan [post]
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Default the submitter to the authenticated user.
	if req.SubmittedBy == "" {
		if email, ok := c.Locals("email").(string); ok {
			req.SubmittedBy = email
		}
	}

	resp, err := h.scanService.Lookup(c.Context(), &req)
	if err != nil {
		switch err {
		case service.ErrEmptyBarcode:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Barcode is required",
			})
		case service.ErrProductNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}
		h.logger.Error("Scan lookup failed", zap.Error(err), zap.String("barcode", req.Barcode))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Scan lookup failed",
		})
	}

	return c.JSON(resp)
}

// RecentScans godoc
// @Summary List recent scans
// @Description Get the authenticated user's most recent scan records
// @Tags scan
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Security Bearer
// @Success 200 {array} dto.ScanRecordResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/scans [get]
func (h *ScanHandler) RecentScans(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 50)

	records, err := h.scanService.RecentScans(c.Context(), email, limit)
	if err != nil {
		h.logger.Error("Failed to list scans", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list scans",
		})
	}

	return c.JSON(records)
}
