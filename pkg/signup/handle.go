package signup

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-wishlist/pkg/account"
	"github.com/tendant/simple-wishlist/pkg/errors"
	"github.com/tendant/simple-wishlist/pkg/sessions"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
)

// SessionValidator checks an existing session cookie
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*sessions.Session, error)
}

// SignupRequest is the JSON or form body of a signup
type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Token    string `json:"token" form:"token"`
}

// AccountResponse is the public view of a new account
type AccountResponse struct {
	ID       uuid.UUID    `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Role     account.Role `json:"role_id"`
	RoleName string       `json:"role"`
}

type SignupResponse struct {
	Account       AccountResponse `json:"account"`
	TokenRedeemed bool            `json:"token_redeemed"`
	GroupLinked   bool            `json:"group_linked"`
}

type CheckInviteResponse struct {
	Valid         bool       `json:"valid,omitempty"`
	ID            *uuid.UUID `json:"id,omitempty"`
	Authenticated bool       `json:"authenticated,omitempty"`
	OpenSignup    bool       `json:"open_signup,omitempty"`
}

type ErrorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Errors  []FieldError     `json:"errors,omitempty"`
}

// Handle serves the signup endpoints
type Handle struct {
	service          *Service
	cookieSetter     tokengenerator.CookieSetter
	cookieName       string
	sessionValidator SessionValidator
	postMiddlewares  []func(http.Handler) http.Handler
}

type HandleOption func(*Handle)

func NewHandle(service *Service, opts ...HandleOption) *Handle {
	h := &Handle{
		service:      service,
		cookieSetter: tokengenerator.NewCookieSetter(true, true, http.SameSiteStrictMode),
		cookieName:   "wishlist_session",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithCookieSetter(cs tokengenerator.CookieSetter) HandleOption {
	return func(h *Handle) {
		h.cookieSetter = cs
	}
}

func WithCookieName(name string) HandleOption {
	return func(h *Handle) {
		if name != "" {
			h.cookieName = name
		}
	}
}

// WithSessionValidator lets the preflight recognise callers already signed in
func WithSessionValidator(v SessionValidator) HandleOption {
	return func(h *Handle) {
		h.sessionValidator = v
	}
}

// WithSignupMiddleware wraps only the POST route, e.g. with a rate limiter
func WithSignupMiddleware(mw ...func(http.Handler) http.Handler) HandleOption {
	return func(h *Handle) {
		h.postMiddlewares = append(h.postMiddlewares, mw...)
	}
}

// Handler returns the signup routes
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.CheckInvite)
	r.With(h.postMiddlewares...).Post("/", h.Signup)
	return r
}

func (h *Handle) hasSession(r *http.Request) bool {
	if h.sessionValidator == nil {
		return false
	}
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = h.sessionValidator.Validate(r.Context(), cookie.Value)
	return err == nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	message := MsgSignupFailed

	var e *errors.Error
	if stderrors.As(err, &e) {
		message = e.Message
	}

	render.Status(r, errors.MapErrorCodeToHTTPStatus(code))
	render.JSON(w, r, ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  FieldErrors(err),
	})
}

// CheckInvite handles GET /?token=. It validates the invite without redeeming it.
func (h *Handle) CheckInvite(w http.ResponseWriter, r *http.Request) {
	if h.hasSession(r) {
		render.JSON(w, r, CheckInviteResponse{Authenticated: true})
		return
	}

	raw := r.URL.Query().Get("token")
	if raw != "" {
		token, err := h.service.CheckToken(r.Context(), raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		render.JSON(w, r, CheckInviteResponse{Valid: true, ID: &token.ID})
		return
	}

	if !h.service.Policy().IsOpenSignupAllowed() {
		writeError(w, r, errors.New(errors.ErrCodeSignupClosed, MsgSignupClosed))
		return
	}
	render.JSON(w, r, CheckInviteResponse{OpenSignup: true})
}

// Signup handles POST /. On success the session token is set as a cookie.
func (h *Handle) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupRequest
	if err := render.Decode(r, &payload); err != nil {
		slog.Error("Failed to decode signup request", "err", err)
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, MsgValidationFailed))
		return
	}

	var form Form
	if err := copier.Copy(&form, &payload); err != nil {
		slog.Error("Failed to copy signup request", "err", err)
		writeError(w, r, errors.InternalWrap(err, MsgSignupFailed))
		return
	}

	result, err := h.service.Signup(r.Context(), Request{Token: payload.Token, Form: form})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.cookieSetter.SetCookie(w, h.cookieName, result.Session.Token, result.Session.ExpiresAt); err != nil {
		slog.Error("Failed to set session cookie", "err", err)
		writeError(w, r, errors.Wrap(err, errors.ErrCodeSessionIssuanceFailed, MsgSessionFailed))
		return
	}

	var acct AccountResponse
	if err := copier.Copy(&acct, result.Account); err != nil {
		slog.Error("Failed to copy account", "err", err)
	}
	acct.RoleName = result.Account.Role.String()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SignupResponse{
		Account:       acct,
		TokenRedeemed: result.TokenRedeemed,
		GroupLinked:   result.GroupLinked,
	})
}
