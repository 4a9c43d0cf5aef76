package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"authform/internal/delivery/http/dto"
	"authform/internal/domain"
	"authform/internal/middleware"
	"authform/internal/usecase"
)

// FormCookie identifies the browser form a submission belongs to
const FormCookie = "form_session"

// AuthHandler serves the login and register forms
type AuthHandler struct {
	forms        *usecase.FormRegistry
	revoker      domain.SessionRevoker
	tokenTTL     time.Duration
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. revoker may be nil when the
// provider keeps no server-side sessions.
func NewAuthHandler(
	forms *usecase.FormRegistry,
	revoker domain.SessionRevoker,
	tokenTTL time.Duration,
	secureCookie bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		forms:        forms,
		revoker:      revoker,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	out := h.formFor(c).SubmitLogin(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if !out.OK() {
		return h.failure(c, out, UnauthorizedResponse)
	}

	resp := dto.LoginResponse{}
	if out.Result != nil {
		resp.Token = out.Result.Token
		resp.User = dto.NewUserOutput(out.Result.User)
	}
	if resp.Token != "" {
		c.SetCookie(h.tokenCookie(resp.Token, int(h.tokenTTL.Seconds())))
	}

	return SuccessResponse(c, resp)
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	out := h.formFor(c).SubmitRegister(c.Request().Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !out.OK() {
		return h.failure(c, out, UnprocessableEntityResponse)
	}

	return CreatedResponse(c, dto.RegisterResponse{
		Message: "Account created successfully",
		Next:    out.Next,
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if token, err := middleware.TokenFromRequest(c); err == nil && h.revoker != nil {
		if err := h.revoker.SignOut(c.Request().Context(), token); err != nil {
			h.logger.Error("failed to end session", zap.Error(err))
		}
	}

	c.SetCookie(h.tokenCookie("", -1))

	return SuccessResponse(c, map[string]string{"next": usecase.LoginPath})
}

// FormState reports whether the caller's form is waiting on the provider.
// Unknown or missing forms are reported idle and nothing is allocated for them.
// GET /api/auth/form
func (h *AuthHandler) FormState(c echo.Context) error {
	pending := false
	if id, ok := formID(c); ok {
		if ctrl, ok := h.forms.Lookup(id); ok {
			pending = ctrl.Pending()
		}
	}
	return SuccessResponse(c, dto.FormStateResponse{Pending: pending})
}

func (h *AuthHandler) failure(c echo.Context, out usecase.Outcome, authFailure func(echo.Context, string) error) error {
	switch {
	case out.Kind == usecase.OutcomeValidationError && out.Message == usecase.MsgSubmissionInProgress:
		return ErrorResponse(c, http.StatusConflict, out.Message, nil)
	case out.Kind == usecase.OutcomeValidationError:
		return BadRequestResponse(c, out.Message)
	default:
		return authFailure(c, out.Message)
	}
}

// tokenCookie builds the session cookie; maxAge -1 clears it
func (h *AuthHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}

func formID(c echo.Context) (uuid.UUID, bool) {
	cookie, err := c.Cookie(FormCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// formFor returns the controller bound to the request's form cookie,
// issuing a new form id when the cookie is missing or malformed.
func (h *AuthHandler) formFor(c echo.Context) *usecase.AuthFormController {
	if id, ok := formID(c); ok {
		return h.forms.Get(id)
	}

	id := uuid.New()
	c.SetCookie(&http.Cookie{
		Name:     FormCookie,
		Value:    id.String(),
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	return h.forms.Get(id)
}
