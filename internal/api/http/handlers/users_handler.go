package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/stutiagarwal3007/esahayak-2025/internal/api/dto"
	"github.com/stutiagarwal3007/esahayak-2025/internal/service"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
	"github.com/stutiagarwal3007/esahayak-2025/pkg/validation"
)

// UsersHandler exposes auth endpoints for agents.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs, err := validation.Validate(req); err != nil {
		return err
	} else if len(errs) > 0 {
		return apperrors.NewValidationError("validation failed", map[string]any{"errors": errs})
	}

	user, token, exp, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs, err := validation.Validate(req); err != nil {
		return err
	} else if len(errs) > 0 {
		return apperrors.NewValidationError("validation failed", map[string]any{"errors": errs})
	}

	user, token, exp, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
