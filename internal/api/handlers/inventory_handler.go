package handlers

import (
	"resellscan/internal/dto"
	"resellscan/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// CreateItem godoc
// @Summary Add an inventory item
// @Description Record a purchased item in the user's inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateInventoryRequest true "Inventory item"
// @Security Bearer
// @Success 201 {object} dto.InventoryItemResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/inventory [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.CreateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.Barcode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and barcode are required",
		})
	}

	item, err := h.inventoryService.Create(c.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Failed to create inventory item", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create inventory item",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListItems godoc
// @Summary List inventory
// @Description Get all of the user's inventory items
// @Tags inventory
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.InventoryItemResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/inventory [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	items, err := h.inventoryService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list inventory", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list inventory",
		})
	}

	return c.JSON(items)
}

// UpdateItem godoc
// @Summary Update an inventory item
// @Description Partially update an inventory item's title, status or price
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UpdateInventoryRequest true "Fields to update"
// @Security Bearer
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/inventory/{id} [patch]
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	var req dto.UpdateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.inventoryService.Update(c.Context(), userID, itemID, &req)
	if err != nil {
		if err == service.ErrInventoryItemNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Inventory item not found",
			})
		}
		h.logger.Error("Failed to update inventory item", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update inventory item",
		})
	}

	return c.JSON(item)
}

// DeleteItem godoc
// @Summary Delete an inventory item
// @Description Remove an item from the user's inventory
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Security Bearer
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /api/v1/inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	if err := h.inventoryService.Delete(c.Context(), userID, itemID); err != nil {
		if err == service.ErrInventoryItemNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Inventory item not found",
			})
		}
		h.logger.Error("Failed to delete inventory item", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete inventory item",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
