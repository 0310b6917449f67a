package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stutiagarwal3007/esahayak-2025/internal/auth"
	"github.com/stutiagarwal3007/esahayak-2025/internal/csvio"
	"github.com/stutiagarwal3007/esahayak-2025/internal/service"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

// ImportExportHandler manages CSV bulk endpoints.
type ImportExportHandler struct {
	importer *service.ImportService
	leads    *service.LeadService
}

// NewImportExportHandler constructs handler.
func NewImportExportHandler(importer *service.ImportService, leadService *service.LeadService) *ImportExportHandler {
	return &ImportExportHandler{importer: importer, leads: leadService}
}

// ImportLeads POST /leads/import.
func (h *ImportExportHandler) ImportLeads(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("csv file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unable to open uploaded file", nil)
	}
	defer file.Close() //nolint:errcheck

	rows, err := csvio.ReadRows(file)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	result, err := h.importer.ImportRows(c.Context(), rows, principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// ExportLeads GET /leads/export.
func (h *ImportExportHandler) ExportLeads(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	filter, _ := parseLeadListQuery(c)
	leads, err := h.leads.ExportLeads(c.Context(), filter)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := csvio.WriteLeads(&buf, leads); err != nil {
		return err
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
