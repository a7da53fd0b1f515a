package signup

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-wishlist/pkg/account"
	"github.com/tendant/simple-wishlist/pkg/errors"
	"github.com/tendant/simple-wishlist/pkg/invite"
	"github.com/tendant/simple-wishlist/pkg/notification"
	"github.com/tendant/simple-wishlist/pkg/sessions"
)

// TokenStore resolves and consumes raw invite tokens, e.g. *invite.Service
type TokenStore interface {
	Lookup(ctx context.Context, raw string) (*invite.Token, error)
	Redeem(ctx context.Context, id uuid.UUID) error
}

// AccountRegistrar creates accounts and group memberships
type AccountRegistrar interface {
	AssignRole(ctx context.Context) (account.Role, error)
	Register(ctx context.Context, params account.RegisterParams) (*account.Account, error)
	LinkToGroup(ctx context.Context, accountID, groupID uuid.UUID) error
}

// SessionIssuer issues a session for a new account
type SessionIssuer interface {
	Issue(ctx context.Context, accountID uuid.UUID) (*sessions.IssuedSession, error)
}

// Request is one signup attempt. Token is the raw invite, empty for open signup.
type Request struct {
	Token string
	Form  Form
}

// Result is a completed signup
type Result struct {
	Account       *account.Account
	Session       *sessions.IssuedSession
	TokenRedeemed bool
	GroupLinked   bool
}

// Service runs the signup flow
type Service struct {
	policy     *Policy
	tokens     TokenStore
	registrar  AccountRegistrar
	sessionSvc SessionIssuer
	notifier   notification.Notifier
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sets where operator notices go. Defaults to the log.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock replaces the time source used for invite expiry
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a signup service
func NewService(policy *Policy, tokens TokenStore, registrar AccountRegistrar, sessionSvc SessionIssuer, opts ...Option) *Service {
	s := &Service{
		policy:     policy,
		tokens:     tokens,
		registrar:  registrar,
		sessionSvc: sessionSvc,
		notifier:   notification.NewManager(notification.NewLogNotifier(nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the signup policy
func (s *Service) Policy() *Policy {
	return s.policy
}

// CheckToken resolves a raw invite without changing anything. It returns the
// usable token or an *errors.Error with TOKEN_INVALID, TOKEN_NOT_FOUND or
// TOKEN_EXPIRED, all carrying the same message.
func (s *Service) CheckToken(ctx context.Context, raw string) (*invite.Token, error) {
	token, err := s.tokens.Lookup(ctx, raw)
	if stderrors.Is(err, invite.ErrInvalidTokenFormat) {
		slog.Info("Invite token rejected", "reason", errors.ErrCodeTokenInvalid)
		return nil, errInviteInvalid(errors.ErrCodeTokenInvalid, err)
	}
	if stderrors.Is(err, invite.ErrTokenNotFound) {
		slog.Info("Invite token rejected", "reason", errors.ErrCodeTokenNotFound)
		return nil, errInviteInvalid(errors.ErrCodeTokenNotFound, err)
	}
	if err != nil {
		slog.Error("Failed to look up invite token", "err", err)
		return nil, errors.InternalWrap(err, MsgSignupFailed)
	}

	if !s.policy.IsTokenUsable(token, s.now()) {
		slog.Info("Invite token rejected", "reason", errors.ErrCodeTokenExpired, "token_id", token.ID, "expired_at", s.policy.Expiry(token))
		return nil, errInviteInvalid(errors.ErrCodeTokenExpired, nil)
	}
	return token, nil
}

// Signup validates the invite and form, creates the account, issues a
// session and then redeems the invite.
func (s *Service) Signup(ctx context.Context, req Request) (*Result, error) {
	var token *invite.Token
	if req.Token != "" {
		t, err := s.CheckToken(ctx, req.Token)
		if err != nil {
			return nil, err
		}
		token = t
	} else if !s.policy.IsOpenSignupAllowed() {
		return nil, errors.New(errors.ErrCodeSignupClosed, MsgSignupClosed)
	}

	form := req.Form.Normalize()
	if fields := ValidateForm(form); len(fields) > 0 {
		return nil, errValidation(fields)
	}

	role, err := s.registrar.AssignRole(ctx)
	if err != nil {
		slog.Error("Failed to assign role", "err", err)
		return nil, errors.InternalWrap(err, MsgSignupFailed)
	}

	acct, err := s.registrar.Register(ctx, account.RegisterParams{
		Username: form.Username,
		Email:    form.Email,
		Name:     form.Name,
		Password: form.Password,
		Role:     role,
	})
	if stderrors.Is(err, account.ErrDuplicateIdentity) {
		slog.Info("Signup rejected, identity taken", "username", form.Username)
		return nil, errDuplicate(err)
	}
	if err != nil {
		slog.Error("Failed to register account", "err", err)
		return nil, errors.InternalWrap(err, MsgSignupFailed)
	}

	issued, err := s.sessionSvc.Issue(ctx, acct.ID)
	if err != nil {
		slog.Error("Failed to issue session", "account_id", acct.ID, "err", err)
		return nil, errors.Wrap(err, errors.ErrCodeSessionIssuanceFailed, MsgSessionFailed)
	}

	result := &Result{Account: acct, Session: issued}
	if token == nil {
		return result, nil
	}

	result.TokenRedeemed = s.redeem(ctx, acct, token)
	if result.TokenRedeemed && token.GroupID != nil {
		result.GroupLinked = s.link(ctx, acct, token)
	}
	return result, nil
}

func (s *Service) redeem(ctx context.Context, acct *account.Account, token *invite.Token) bool {
	err := s.tokens.Redeem(ctx, token.ID)
	if err == nil {
		return true
	}

	if stderrors.Is(err, invite.ErrTokenAlreadyRedeemed) {
		slog.Warn("Invite token redeemed by another signup", "token_id", token.ID, "account_id", acct.ID)
	} else {
		slog.Error("Failed to redeem invite token", "token_id", token.ID, "account_id", acct.ID, "err", err)
	}
	s.notify(ctx, notification.Notice{
		Type: notification.NoticeRedemptionLost,
		Data: map[string]string{
			"account_id": acct.ID.String(),
			"token_id":   token.ID.String(),
			"error":      err.Error(),
		},
	})
	return false
}

func (s *Service) link(ctx context.Context, acct *account.Account, token *invite.Token) bool {
	err := s.registrar.LinkToGroup(ctx, acct.ID, *token.GroupID)
	if err == nil {
		slog.Info("Account joined invite group", "account_id", acct.ID, "group_id", *token.GroupID)
		return true
	}

	linkErr := errors.Wrap(err, errors.ErrCodeLinkFailed, "failed to link account to group")
	slog.Error("Signup completed without group link", "code", linkErr.Code, "account_id", acct.ID, "group_id", *token.GroupID, "err", err)
	s.notify(ctx, notification.Notice{
		Type: notification.NoticeGroupLinkFailed,
		Data: map[string]string{
			"account_id": acct.ID.String(),
			"token_id":   token.ID.String(),
			"group_id":   token.GroupID.String(),
			"error":      err.Error(),
		},
	})
	return false
}

func (s *Service) notify(ctx context.Context, notice notification.Notice) {
	if err := s.notifier.Notify(ctx, notice); err != nil {
		slog.Error("Failed to send operator notice", "type", notice.Type, "err", err)
	}
}
