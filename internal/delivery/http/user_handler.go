package http

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"authform/internal/delivery/http/dto"
	"authform/internal/domain"
	"authform/internal/middleware"
)

// UserHandler handles requests about the signed-in user
type UserHandler struct {
	userRepo domain.UserRepository
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo domain.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetMe returns the current user
// GET /api/user/me
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Unauthorized")
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return NotFoundResponse(c, "User not found")
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.String("user_id", userID.String()), zap.Error(err))
		return InternalServerErrorResponse(c, "Failed to load user")
	}

	return SuccessResponse(c, dto.NewUserOutput(user))
}
