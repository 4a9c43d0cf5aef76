package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"unicode/utf16"

	"go.uber.org/zap"

	"authform/internal/domain"
)

// User-facing messages produced by the form controller
const (
	MsgFillAllFields        = "Please fill in all fields"
	MsgPasswordMismatch     = "Passwords do not match"
	MsgPasswordTooShort     = "Password must be at least 6 characters"
	MsgInvalidEmail         = "Please enter a valid email"
	MsgSubmissionInProgress = "A submission is already in progress"
	MsgLoginFailed          = "Error logging in"
	MsgRegisterFailed       = "Error creating account"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// LoginPath is the login form's location
const LoginPath = "/login"

// NextAfterRegister is where the caller should go after a successful registration
const NextAfterRegister = LoginPath

// emailPart excludes "@" and the ECMAScript whitespace set, which is wider than RE2's \s
const emailPart = `[^\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}@]+`

var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// passwordLength counts UTF-16 code units, so astral characters count twice
func passwordLength(pw string) int {
	return len(utf16.Encode([]rune(pw)))
}

// OutcomeKind tags a submission result
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeValidationError
	OutcomeAuthError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeAuthError:
		return "auth_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the single result of one submission attempt.
// Err keeps the cause of a failed provider call for logging; callers show Message only.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Next    string
	Result  *domain.AuthResult
	Err     error
}

// OK reports whether the submission succeeded
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// LoginInput holds the login form fields
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput holds the registration form fields
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type rule[T any] struct {
	message string
	fails   func(in T) bool
}

// flow is one configuration of the submission pipeline: ordered rules,
// the provider call and what to report when the provider gives no message.
type flow[T any] struct {
	name     string
	rules    []rule[T]
	call     func(ctx context.Context, p domain.AuthProvider, in T) (*domain.AuthResult, error)
	fallback string
	next     string
}

var loginFlow = flow[LoginInput]{
	name: "login",
	rules: []rule[LoginInput]{
		{MsgFillAllFields, func(in LoginInput) bool {
			return in.Email == "" || in.Password == ""
		}},
	},
	call: func(ctx context.Context, p domain.AuthProvider, in LoginInput) (*domain.AuthResult, error) {
		return p.SignIn(ctx, in.Email, in.Password)
	},
	fallback: MsgLoginFailed,
}

// Rule order is observable: with several violations the first one listed is reported.
var registerFlow = flow[RegisterInput]{
	name: "register",
	rules: []rule[RegisterInput]{
		{MsgFillAllFields, func(in RegisterInput) bool {
			return in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == ""
		}},
		{MsgPasswordMismatch, func(in RegisterInput) bool {
			return in.Password != in.ConfirmPassword
		}},
		{MsgPasswordTooShort, func(in RegisterInput) bool {
			return passwordLength(in.Password) < MinPasswordLength
		}},
		{MsgInvalidEmail, func(in RegisterInput) bool {
			return !emailPattern.MatchString(in.Email)
		}},
	},
	call: func(ctx context.Context, p domain.AuthProvider, in RegisterInput) (*domain.AuthResult, error) {
		return p.SignUp(ctx, in.Name, in.Email, in.Password)
	},
	fallback: MsgRegisterFailed,
	next:     NextAfterRegister,
}

// AuthFormController validates form input and drives one provider call per submission.
// One controller backs one form; it never caches anything the provider returns.
type AuthFormController struct {
	provider domain.AuthProvider
	logger   *zap.Logger
	pending  atomic.Bool
}

// NewAuthFormController creates a controller in the idle state
func NewAuthFormController(provider domain.AuthProvider, logger *zap.Logger) *AuthFormController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthFormController{
		provider: provider,
		logger:   logger,
	}
}

// Pending reports whether a provider call is in flight
func (c *AuthFormController) Pending() bool {
	return c.pending.Load()
}

// SubmitLogin validates the login fields and signs in
func (c *AuthFormController) SubmitLogin(ctx context.Context, in LoginInput) Outcome {
	return submit(ctx, c, loginFlow, in)
}

// SubmitRegister validates the registration fields and signs up.
// A successful outcome carries Next so the caller can move to the login form.
func (c *AuthFormController) SubmitRegister(ctx context.Context, in RegisterInput) Outcome {
	return submit(ctx, c, registerFlow, in)
}

// validate returns the first violated rule's message for in, or "" when valid
func validate[T any](rules []rule[T], in T) string {
	for _, r := range rules {
		if r.fails(in) {
			return r.message
		}
	}
	return ""
}

func submit[T any](ctx context.Context, c *AuthFormController, f flow[T], in T) (out Outcome) {
	log := c.logger.With(zap.String("flow", f.name))

	if msg := validate(f.rules, in); msg != "" {
		log.Debug("form rejected", zap.String("reason", msg))
		return Outcome{Kind: OutcomeValidationError, Message: msg}
	}

	if !c.pending.CompareAndSwap(false, true) {
		log.Debug("form rejected, submission in flight")
		return Outcome{Kind: OutcomeValidationError, Message: MsgSubmissionInProgress}
	}
	defer c.pending.Store(false)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s provider panicked: %v", f.name, r)
			log.Error("provider call failed", zap.Error(err))
			out = Outcome{Kind: OutcomeAuthError, Message: f.fallback, Err: err}
		}
	}()

	result, err := f.call(ctx, c.provider, in)
	if err != nil {
		log.Warn("provider call failed", zap.Error(err))
		return Outcome{Kind: OutcomeAuthError, Message: f.fallback, Err: err}
	}
	if result == nil {
		err := fmt.Errorf("%s provider returned no result", f.name)
		log.Warn("provider call failed", zap.Error(err))
		return Outcome{Kind: OutcomeAuthError, Message: f.fallback, Err: err}
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = f.fallback
		}
		log.Info("provider rejected submission", zap.String("message", msg))
		return Outcome{Kind: OutcomeAuthError, Message: msg, Result: result}
	}

	log.Info("submission succeeded")
	return Outcome{Kind: OutcomeSuccess, Next: f.next, Result: result}
}
