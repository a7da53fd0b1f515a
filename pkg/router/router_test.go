package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-wishlist/pkg/account"
	pkgconfig "github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/invite"
	"github.com/tendant/simple-wishlist/pkg/sessions"
	"github.com/tendant/simple-wishlist/pkg/signup"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret-key-for-testing-only"
	testCookie = "wishlist_session"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	accounts := account.NewInMemoryRepository()
	registrar := account.NewRegistrar(accounts, account.WithPasswordHasher(&account.BcryptHasher{Cost: bcrypt.MinCost}))
	gen := tokengenerator.NewJwtTokenGenerator(testSecret, "wishlist", "")
	sessionSvc := sessions.NewService(sessions.NewInMemoryRepository(), gen)
	cookieSetter := tokengenerator.NewCookieSetter(true, false, http.SameSiteLaxMode)

	signupSvc := signup.NewService(
		signup.NewPolicy(pkgconfig.SignupConfig{EnableSignup: true}),
		invite.NewService(invite.NewInMemoryRepository()),
		registrar,
		sessionSvc,
	)
	handle := signup.NewHandle(signupSvc,
		signup.WithCookieName(testCookie),
		signup.WithCookieSetter(cookieSetter),
		signup.WithSessionValidator(sessionSvc),
	)

	r := chi.NewRouter()
	SetupRoutes(r, Config{
		PrefixConfig:   pkgconfig.DefaultV1Prefixes(),
		SignupHandle:   handle,
		SessionService: sessionSvc,
		Accounts:       accounts,
		HMACAuth:       jwtauth.New("HS256", []byte(testSecret), nil),
		CookieName:     testCookie,
		CookieSetter:   cookieSetter,
	})
	return r
}

func signupCookie(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	body := `{"username":"alice","password":"password123","email":"alice@example.com","name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/signup/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSetupRoutes_SignupThenMe(t *testing.T) {
	r := newTestRouter(t)
	cookie := signupCookie(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.NotNil(t, me.Account)
	assert.Equal(t, "alice", me.Account.Username)
	assert.Equal(t, account.RoleAdmin, me.Account.Role)
	assert.Equal(t, me.Account.ID, me.AccountID)
}

func TestSetupRoutes_MeRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "garbage"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetupRoutes_Logout(t *testing.T) {
	r := newTestRouter(t)
	cookie := signupCookie(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	// The token still verifies but its session is revoked.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/session/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetupRoutes_SignupPreflightWhenSignedIn(t *testing.T) {
	r := newTestRouter(t)
	cookie := signupCookie(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/signup/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
}
