package handlers

import (
	"net/http"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-admin/internal/api/dto"
	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/service"
)

// StaffHandler exposes the staff-management endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

func staffResponse(staff *domain.StaffAccount) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          staff.ID,
		Name:        staff.Name,
		Email:       staff.Email,
		Role:        string(staff.Role),
		RoleDisplay: domain.RoleDisplayName(staff.Role),
		Active:      staff.Active,
		LastLogin:   staff.LastLogin,
		CreatedAt:   staff.CreatedAt,
	}
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	role, valid := domain.ParseRole(req.Role)
	if !valid {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}

	staff, err := h.staffService.AddStaffMember(c.UserContext(), caller, req.Name, req.Email, role, req.InitialPassword)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	list, err := h.staffService.List(c.UserContext(), caller)
	if err != nil {
		return err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SetActive handles PATCH /staff/:id/active.
func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.StaffSetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Active == nil {
		return fiber.NewError(http.StatusBadRequest, "active required")
	}

	staff, err := h.staffService.SetActive(c.UserContext(), caller, c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// SetRole handles PATCH /staff/:id/role.
func (h *StaffHandler) SetRole(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.StaffSetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	role, valid := domain.ParseRole(req.Role)
	if !valid {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}

	staff, err := h.staffService.SetRole(c.UserContext(), caller, c.Params("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// ResetPassword handles POST /staff/:id/password/reset. The temporary
// password appears once in the response body and nowhere else.
func (h *StaffHandler) ResetPassword(c *fiber.Ctx) error {
	caller, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.StaffResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	temp, err := h.staffService.ResetPassword(c.UserContext(), caller, c.Params("id"), req.TemporaryPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"temporary_password": temp}})
}
