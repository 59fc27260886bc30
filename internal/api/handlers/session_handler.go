package handlers

import (
	"resellscan/internal/dto"
	"resellscan/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler exposes the single-active-session registry. Clients
// register their session id on start, verify it on heartbeat, and remove
// it on exit. A conditional delete lets an operator force another
// device's session out without racing a fresh registration.
type SessionHandler struct {
	sessionService *service.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// GetSession godoc
// @Summary Get the registered session for a user
// @Description Return the currently registered session id, empty when none
// @Tags sessions
// @Produce json
// @Param userId path string true "User ID"
// @Security Bearer
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/sessions/{userId} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	resp, err := h.sessionService.Current(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to read session", zap.Error(err), zap.String("user_id", userID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read session",
		})
	}

	return c.JSON(resp)
}

// RegisterSession godoc
// @Summary Register a session
// @Description Register the caller's session id, replacing any previous one
// @Tags sessions
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.RegisterSessionRequest true "Session registration"
// @Security Bearer
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/sessions/{userId} [put]
func (h *SessionHandler) RegisterSession(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	var req dto.RegisterSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	if err := h.sessionService.Register(c.Context(), userID, req.SessionID); err != nil {
		h.logger.Error("Failed to register session", zap.Error(err), zap.String("user_id", userID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register session",
		})
	}

	return c.JSON(dto.SessionResponse{SessionID: req.SessionID})
}

// DeleteSession godoc
// @Summary Remove a session registration
// @Description Remove the registration if it still matches the given session id
// @Tags sessions
// @Produce json
// @Param userId path string true "User ID"
// @Param sessionId query string true "Session ID to remove"
// @Security Bearer
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Router /api/v1/sessions/{userId} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID := c.Params("userId")
	sessionID := c.Query("sessionId")
	if userID == "" || sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID and session ID are required",
		})
	}

	if err := h.sessionService.Unregister(c.Context(), userID, sessionID); err != nil {
		h.logger.Error("Failed to remove session", zap.Error(err), zap.String("user_id", userID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove session",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
