package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-admin/internal/api/dto"
	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/service"
)

// ActivityHandler exposes the activity-log view.
type ActivityHandler struct {
	staffService *service.StaffService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(staffService *service.StaffService) *ActivityHandler {
	return &ActivityHandler{staffService: staffService}
}

// Recent handles GET /activity.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fiber.NewError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	entries, err := h.staffService.RecentActivity(c.UserContext(), caller, limit)
	if err != nil {
		return err
	}

	resp := make([]dto.ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ActivityEntryResponse{
			ID:        entry.ID,
			Timestamp: entry.Timestamp,
			StaffID:   entry.StaffID,
			StaffName: entry.StaffName,
			Action:    string(entry.Action),
			Details:   entry.Details,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}
