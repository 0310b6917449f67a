package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stutiagarwal3007/esahayak-2025/internal/api/dto"
	"github.com/stutiagarwal3007/esahayak-2025/internal/auth"
	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	"github.com/stutiagarwal3007/esahayak-2025/internal/intake"
	"github.com/stutiagarwal3007/esahayak-2025/internal/service"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

// LeadsHandler manages lead CRUD endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// CreateLead POST /leads.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.LeadPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.service.CreateLead(c.Context(), principal.User.ID, formInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": leadResponse(lead)})
}

// ListLeads GET /leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	filter, page := parseLeadListQuery(c)
	leads, total, err := h.service.ListLeads(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, leadResponse(&leads[i]))
	}
	return c.JSON(fiber.Map{"data": dto.LeadListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: 10,
	}})
}

// GetLead GET /leads/:id.
func (h *LeadsHandler) GetLead(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	lead, history, err := h.service.GetLead(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	entries := make([]dto.HistoryEntryResponse, 0, len(history))
	for _, entry := range history {
		entries = append(entries, dto.HistoryEntryResponse{
			ID:        entry.ID,
			ChangedBy: entry.ChangedBy,
			Diff:      entry.Diff,
			ChangedAt: entry.ChangedAt,
		})
	}
	return c.JSON(fiber.Map{"data": dto.LeadDetailResponse{
		Lead:    leadResponse(lead),
		History: entries,
	}})
}

// UpdateLead PUT /leads/:id.
func (h *LeadsHandler) UpdateLead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UpdatedAt.IsZero() {
		return apperrors.NewValidationError("updatedAt concurrency token required", nil)
	}

	lead, err := h.service.UpdateLead(c.Context(), principal.User.ID, c.Params("id"), formInput(req.LeadPayload), req.UpdatedAt)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leadResponse(lead)})
}

// DeleteLead DELETE /leads/:id.
func (h *LeadsHandler) DeleteLead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteLead(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseLeadListQuery(c *fiber.Ctx) (service.LeadListFilter, int) {
	filter := service.LeadListFilter{}
	if val := strings.TrimSpace(c.Query("city")); val != "" {
		city := domain.City(val)
		filter.City = &city
	}
	if val := strings.TrimSpace(c.Query("propertyType")); val != "" {
		propertyType := domain.PropertyType(val)
		filter.PropertyType = &propertyType
	}
	if val := strings.TrimSpace(c.Query("status")); val != "" {
		status := domain.LeadStatus(val)
		filter.Status = &status
	}
	if val := strings.TrimSpace(c.Query("timeline")); val != "" {
		timeline := domain.Timeline(val)
		filter.Timeline = &timeline
	}
	if val := strings.TrimSpace(c.Query("q")); val != "" {
		filter.Query = &val
	}
	page := parseInt(c.Query("page"), 1)
	filter.Page = page
	return filter, page
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func formInput(req dto.LeadPayload) intake.FormInput {
	return intake.FormInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		City:         req.City,
		PropertyType: req.PropertyType,
		BHK:          req.BHK,
		Purpose:      req.Purpose,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       req.Status,
		Notes:        req.Notes,
		Tags:         req.Tags,
	}
}

func leadResponse(lead *domain.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:           lead.ID,
		FullName:     lead.FullName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		City:         lead.City,
		PropertyType: lead.PropertyType,
		BHK:          lead.BHK,
		Purpose:      lead.Purpose,
		BudgetMin:    lead.BudgetMin,
		BudgetMax:    lead.BudgetMax,
		Timeline:     lead.Timeline,
		Source:       lead.Source,
		Status:       lead.Status,
		Notes:        lead.Notes,
		Tags:         lead.Tags,
		OwnerID:      lead.OwnerID,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}
