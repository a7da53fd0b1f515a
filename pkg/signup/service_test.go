package signup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-wishlist/pkg/account"
	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/errors"
	"github.com/tendant/simple-wishlist/pkg/invite"
	"github.com/tendant/simple-wishlist/pkg/notification"
	"github.com/tendant/simple-wishlist/pkg/sessions"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	svc       *Service
	invites   *invite.InMemoryRepository
	accounts  *account.InMemoryRepository
	sessions  *sessions.InMemoryRepository
	registrar *account.Registrar
	notifier  *notification.MockNotifier

	mu  sync.Mutex
	now time.Time
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *harness) setNow(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

func newHarness(t *testing.T, cfg config.SignupConfig, issuer SessionIssuer) *harness {
	t.Helper()
	h := &harness{
		invites:  invite.NewInMemoryRepository(),
		accounts: account.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
		notifier: &notification.MockNotifier{},
		now:      t0,
	}
	h.registrar = account.NewRegistrar(h.accounts, account.WithPasswordHasher(&account.BcryptHasher{Cost: bcrypt.MinCost}))
	if issuer == nil {
		gen := tokengenerator.NewJwtTokenGenerator("test-secret", "wishlist", "")
		issuer = sessions.NewService(h.sessions, gen)
	}
	h.svc = NewService(NewPolicy(cfg), invite.NewService(h.invites), h.registrar, issuer,
		WithClock(h.clock),
		WithNotifier(h.notifier),
	)
	return h
}

// createInvite stores a token created at createdAt and returns its raw value.
func (h *harness) createInvite(t *testing.T, groupID *uuid.UUID, createdAt time.Time) (string, *invite.Token) {
	t.Helper()
	raw, err := invite.GenerateRawToken()
	require.NoError(t, err)
	fp, err := invite.Fingerprint(raw)
	require.NoError(t, err)
	token, err := h.invites.CreateAt(context.Background(), invite.CreateTokenParams{Fingerprint: fp, GroupID: groupID}, createdAt)
	require.NoError(t, err)
	return raw, token
}

func (h *harness) accountCount(t *testing.T) int64 {
	t.Helper()
	n, err := h.accounts.CountAccounts(context.Background())
	require.NoError(t, err)
	return n
}

func formFor(username string) Form {
	return Form{
		Username: username,
		Password: "password123",
		Email:    username + "@example.com",
		Name:     "Test " + username,
	}
}

func TestSignup_ValidTokenWithGroup(t *testing.T) {
	h := newHarness(t, config.SignupConfig{TokenTimeToLiveHours: 72}, nil)
	ctx := context.Background()

	groupID := uuid.New()
	h.accounts.AddGroup(groupID, "family")
	raw, token := h.createInvite(t, &groupID, t0)
	h.setNow(t0.Add(time.Hour))

	result, err := h.svc.Signup(ctx, Request{Token: raw, Form: formFor("alice")})
	require.NoError(t, err)

	assert.Equal(t, account.RoleAdmin, result.Account.Role)
	require.NotNil(t, result.Session)
	assert.NotEmpty(t, result.Session.Token)
	assert.Equal(t, result.Account.ID, result.Session.Session.AccountID)
	assert.True(t, result.TokenRedeemed)
	assert.True(t, result.GroupLinked)

	stored, err := h.invites.GetByID(ctx, token.ID)
	require.NoError(t, err)
	assert.True(t, stored.Redeemed)

	memberships, err := h.accounts.ListGroupMemberships(ctx, result.Account.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, groupID, memberships[0].GroupID)
	assert.True(t, memberships[0].Active)

	assert.Empty(t, h.notifier.Sent())
}

func TestSignup_SecondAccountIsUser(t *testing.T) {
	h := newHarness(t, config.SignupConfig{EnableSignup: true}, nil)
	ctx := context.Background()

	first, err := h.svc.Signup(ctx, Request{Form: formFor("alice")})
	require.NoError(t, err)
	second, err := h.svc.Signup(ctx, Request{Form: formFor("bob")})
	require.NoError(t, err)

	assert.Equal(t, account.RoleAdmin, first.Account.Role)
	assert.Equal(t, account.RoleUser, second.Account.Role)
	assert.False(t, second.TokenRedeemed)
	assert.False(t, second.GroupLinked)
}

func TestSignup_ClosedWithoutToken(t *testing.T) {
	h := newHarness(t, config.SignupConfig{EnableSignup: false}, nil)

	_, err := h.svc.Signup(context.Background(), Request{Form: formFor("alice")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSignupClosed))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, MsgSignupClosed, e.Message)
	assert.Equal(t, 404, e.HTTPStatusCode())
	assert.Equal(t, int64(0), h.accountCount(t))
}

func TestSignup_TokenExpired(t *testing.T) {
	h := newHarness(t, config.SignupConfig{TokenTimeToLiveHours: 72}, nil)
	raw, token := h.createInvite(t, nil, t0)
	h.setNow(t0.Add(73 * time.Hour))

	_, err := h.svc.Signup(context.Background(), Request{Token: raw, Form: formFor("alice")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenExpired))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, MsgInviteInvalid, e.Message)
	assert.Equal(t, 400, e.HTTPStatusCode())

	assert.Equal(t, int64(0), h.accountCount(t))
	stored, err := h.invites.GetByID(context.Background(), token.ID)
	require.NoError(t, err)
	assert.False(t, stored.Redeemed)
}

func TestSignup_InviteFailuresShareMessage(t *testing.T) {
	h := newHarness(t, config.SignupConfig{EnableSignup: true}, nil)
	ctx := context.Background()

	redeemedRaw, redeemed := h.createInvite(t, nil, t0)
	require.NoError(t, h.invites.MarkRedeemed(ctx, redeemed.ID))
	expiredRaw, _ := h.createInvite(t, nil, t0.Add(-100*time.Hour))

	tests := []struct {
		name string
		raw  string
		code errors.ErrorCode
	}{
		{"unknown", "never-issued-token", errors.ErrCodeTokenNotFound},
		{"redeemed", redeemedRaw, errors.ErrCodeTokenNotFound},
		{"expired", expiredRaw, errors.ErrCodeTokenExpired},
		{"malformed", "has space", errors.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Signup(ctx, Request{Token: tt.raw, Form: formFor("alice")})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, MsgInviteInvalid, e.Message)
			assert.Equal(t, 400, e.HTTPStatusCode())
		})
	}
	assert.Equal(t, int64(0), h.accountCount(t))
}

func TestSignup_TokenCheckedBeforeForm(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)

	_, err := h.svc.Signup(context.Background(), Request{Token: "unknown-token", Form: Form{}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenNotFound))
}

func TestSignup_ValidationFailed(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)
	raw, token := h.createInvite(t, nil, t0)

	form := formFor("alice")
	form.Email = "nope"
	form.Password = "short"

	_, err := h.svc.Signup(context.Background(), Request{Token: raw, Form: form})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))

	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "password", fields[0].Field)
	assert.Equal(t, "email", fields[1].Field)

	assert.Equal(t, int64(0), h.accountCount(t))
	stored, _ := h.invites.GetByID(context.Background(), token.ID)
	assert.False(t, stored.Redeemed)
}

func TestSignup_PasswordOverByteLimit(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)
	raw, token := h.createInvite(t, nil, t0)

	form := formFor("alice")
	form.Password = strings.Repeat("é", 40)

	_, err := h.svc.Signup(context.Background(), Request{Token: raw, Form: form})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))

	fields := FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)

	assert.Equal(t, int64(0), h.accountCount(t))
	stored, _ := h.invites.GetByID(context.Background(), token.ID)
	assert.False(t, stored.Redeemed)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	h := newHarness(t, config.SignupConfig{EnableSignup: true}, nil)
	ctx := context.Background()

	existing, err := h.svc.Signup(ctx, Request{Form: formFor("alice")})
	require.NoError(t, err)

	raw, token := h.createInvite(t, nil, t0)
	dup := formFor("alice")
	dup.Email = "different@example.com"

	_, err = h.svc.Signup(ctx, Request{Token: raw, Form: dup})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateIdentity))
	assert.Equal(t, []FieldError{{Field: "username", Message: MsgDuplicateIdentity}}, FieldErrors(err))

	// No extra account, session or redemption.
	assert.Equal(t, int64(1), h.accountCount(t))
	list, err := h.sessions.ListByAccountID(ctx, existing.Account.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	stored, _ := h.invites.GetByID(ctx, token.ID)
	assert.False(t, stored.Redeemed)
}

func TestSignup_GroupLinkFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)
	ctx := context.Background()

	groupID := uuid.New()
	h.accounts.AddGroup(groupID, "family")
	raw, _ := h.createInvite(t, &groupID, t0)
	h.accounts.RemoveGroup(groupID)

	result, err := h.svc.Signup(ctx, Request{Token: raw, Form: formFor("alice")})
	require.NoError(t, err)
	assert.True(t, result.TokenRedeemed)
	assert.False(t, result.GroupLinked)
	assert.NotNil(t, result.Session)

	_, err = h.accounts.GetByID(ctx, result.Account.ID)
	assert.NoError(t, err)

	sent := h.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.NoticeGroupLinkFailed, sent[0].Type)
	assert.Equal(t, result.Account.ID.String(), sent[0].Data["account_id"])
	assert.Equal(t, groupID.String(), sent[0].Data["group_id"])
}

type failingIssuer struct{}

func (failingIssuer) Issue(ctx context.Context, accountID uuid.UUID) (*sessions.IssuedSession, error) {
	return nil, fmt.Errorf("session store unavailable")
}

func TestSignup_SessionIssuanceFailed(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, failingIssuer{})
	ctx := context.Background()
	raw, token := h.createInvite(t, nil, t0)

	_, err := h.svc.Signup(ctx, Request{Token: raw, Form: formFor("alice")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionIssuanceFailed))
	assert.Equal(t, 500, errors.MapErrorCodeToHTTPStatus(errors.GetCode(err)))

	// The account stays; the invite is not consumed.
	assert.Equal(t, int64(1), h.accountCount(t))
	stored, _ := h.invites.GetByID(ctx, token.ID)
	assert.False(t, stored.Redeemed)
}

func TestSignup_ConcurrentRedemptionLinksOnce(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)
	ctx := context.Background()

	groupID := uuid.New()
	h.accounts.AddGroup(groupID, "family")
	raw, token := h.createInvite(t, &groupID, t0)

	const workers = 8
	type outcome struct {
		result *Result
		err    error
	}
	outcomes := make(chan outcome, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			res, err := h.svc.Signup(ctx, Request{Token: raw, Form: formFor(fmt.Sprintf("user%d", i))})
			outcomes <- outcome{res, err}
		}(i)
	}
	close(start)
	wg.Wait()
	close(outcomes)

	redeemed, linked, lost := 0, 0, 0
	for o := range outcomes {
		if o.err != nil {
			// Arrived after the winner redeemed the token.
			assert.True(t, errors.IsCode(o.err, errors.ErrCodeTokenNotFound), "unexpected error: %v", o.err)
			continue
		}
		if o.result.TokenRedeemed {
			redeemed++
		} else {
			lost++
		}
		if o.result.GroupLinked {
			linked++
		}
	}

	assert.Equal(t, 1, redeemed)
	assert.Equal(t, 1, linked)
	assert.Len(t, h.notifier.Sent(), lost)

	stored, err := h.invites.GetByID(ctx, token.ID)
	require.NoError(t, err)
	assert.True(t, stored.Redeemed)
}

func TestCheckToken(t *testing.T) {
	h := newHarness(t, config.SignupConfig{}, nil)
	raw, token := h.createInvite(t, nil, t0)

	got, err := h.svc.CheckToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)

	// Read only.
	stored, _ := h.invites.GetByID(context.Background(), token.ID)
	assert.False(t, stored.Redeemed)

	h.setNow(t0.Add(72 * time.Hour))
	_, err = h.svc.CheckToken(context.Background(), raw)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenExpired))
}
