package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gitedu/docuvault/internal/api/middleware"
	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

type stubAccounts struct {
	registerErr   error
	loginErr      error
	deletion      *ports.AccountDeletionResult
	lastRegister  ports.RegisterInput
	lastVerifyID  string
	lastDeleteDoc bool
}

func (s *stubAccounts) Register(_ context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	s.lastRegister = input
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &ports.RegisterResult{
		User:  &domain.User{ID: "u1", Name: input.Name, Email: input.Email, Role: input.Role},
		Token: "session-token",
	}, nil
}

func (s *stubAccounts) VerifyEmail(_ context.Context, userID, _ string) (*domain.User, error) {
	s.lastVerifyID = userID
	return &domain.User{ID: userID, Role: domain.RoleStaff, IsVerified: true}, nil
}

func (s *stubAccounts) Login(_ context.Context, email, _, claimedRole string) (*ports.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &ports.LoginResult{
		User:  &domain.User{ID: "u1", Name: "alice", Email: email, Role: claimedRole},
		Token: "session-token",
	}, nil
}

func (s *stubAccounts) RequestPasswordChange(context.Context, string) error { return nil }
func (s *stubAccounts) ChangePassword(context.Context, string, string, string) error {
	return nil
}
func (s *stubAccounts) RequestPasswordReset(context.Context, string) error { return nil }
func (s *stubAccounts) ResetPassword(context.Context, string, string, string) error {
	return nil
}

func (s *stubAccounts) DeleteAccount(_ context.Context, _ string, deleteDocuments bool) (*ports.AccountDeletionResult, error) {
	s.lastDeleteDoc = deleteDocuments
	if s.deletion != nil {
		return s.deletion, nil
	}
	return &ports.AccountDeletionResult{IdentityDeleted: true, CascadeRequested: deleteDocuments}, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	accounts := &stubAccounts{}
	h := NewAuthHandler(accounts, 2*time.Hour)
	e := newEcho()

	req := jsonRequest(http.MethodPost, "/users", `{"name":"alice","email":"alice@git.edu","password":"pw123456","department":"CS","role":"student"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if accounts.lastRegister.Name != "alice" || accounts.lastRegister.Role != "student" {
		t.Fatalf("input not forwarded: %+v", accounts.lastRegister)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("no session cookie set")
	}
	if cookie.Value != "session-token" {
		t.Fatalf("cookie value %q", cookie.Value)
	}
	if cookie.MaxAge != int((2 * time.Hour).Seconds()) {
		t.Fatalf("cookie max-age %d", cookie.MaxAge)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success {
		t.Fatalf("response not marked successful")
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, time.Hour)
	e := newEcho()

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"name":"alice"}`},
		{"bad email", `{"name":"alice","email":"nope","password":"pw123456","department":"CS","role":"student"}`},
		{"short password", `{"name":"alice","email":"alice@git.edu","password":"pw","department":"CS","role":"student"}`},
		{"unknown role", `{"name":"alice","email":"alice@git.edu","password":"pw123456","department":"CS","role":"dean"}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/users", tc.body), rec)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, time.Hour)
	e := newEcho()

	req := jsonRequest(http.MethodPost, "/users/login", `{"email":"alice@git.edu","password":"pw123456","role":"student"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sessionCookie(rec) == nil {
		t.Fatalf("no session cookie set")
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ID != "u1" || resp.Name != "alice" || resp.Role != "student" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_ErrorPassthrough(t *testing.T) {
	accounts := &stubAccounts{loginErr: domain.ErrRoleMismatch}
	h := NewAuthHandler(accounts, time.Hour)
	e := newEcho()

	req := jsonRequest(http.MethodPost, "/users/login", `{"email":"alice@git.edu","password":"pw123456","role":"admin"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	// Domain errors pass through untouched for the central error handler.
	if err := h.Login(c); err != domain.ErrRoleMismatch {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, time.Hour)
	e := newEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/users/logout", nil), rec)
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("no session cookie written")
	}
	if cookie.Value != "" || !cookie.Expires.Before(time.Now()) {
		t.Fatalf("cookie not expired: value=%q expires=%v", cookie.Value, cookie.Expires)
	}
}

func TestAuthHandler_ClearedCookieMatchesSetCookieAttributes(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, time.Hour)
	e := newEcho()

	setRec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/users/login", `{"email":"alice@git.edu","password":"pw123456","role":"student"}`), setRec)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	clearRec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/users/logout", nil), clearRec)
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	set := sessionCookie(setRec)
	cleared := sessionCookie(clearRec)
	if set == nil || cleared == nil {
		t.Fatalf("missing cookie: set=%v cleared=%v", set, cleared)
	}

	// Browsers key cookies on name, domain, and path, and some also refuse to
	// overwrite a Secure cookie with a non-Secure one. Mismatched attributes
	// would leave the session cookie standing after logout.
	if cleared.Path != set.Path {
		t.Fatalf("path mismatch: set=%q cleared=%q", set.Path, cleared.Path)
	}
	if cleared.Secure != set.Secure {
		t.Fatalf("secure mismatch: set=%v cleared=%v", set.Secure, cleared.Secure)
	}
	if cleared.SameSite != set.SameSite {
		t.Fatalf("samesite mismatch: set=%v cleared=%v", set.SameSite, cleared.SameSite)
	}
	if cleared.HttpOnly != set.HttpOnly {
		t.Fatalf("httponly mismatch: set=%v cleared=%v", set.HttpOnly, cleared.HttpOnly)
	}
	if cleared.MaxAge >= 0 && cleared.Expires.After(time.Now()) {
		t.Fatalf("cleared cookie not expiring: max-age=%d expires=%v", cleared.MaxAge, cleared.Expires)
	}
}

func TestAuthHandler_VerifyEmail_UsesSessionIdentity(t *testing.T) {
	accounts := &stubAccounts{}
	h := NewAuthHandler(accounts, time.Hour)
	e := newEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/users/verify", `{"token":"1234"}`), rec)
	c.Set("user_id", "u1")

	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if accounts.lastVerifyID != "u1" {
		t.Fatalf("verified %q, want session identity", accounts.lastVerifyID)
	}

	// Without the middleware-provided identity the handler refuses.
	c = e.NewContext(jsonRequest(http.MethodPost, "/users/verify", `{"token":"1234"}`), httptest.NewRecorder())
	err := h.VerifyEmail(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	accounts := &stubAccounts{deletion: &ports.AccountDeletionResult{
		IdentityDeleted: true, CascadeRequested: true,
		DocumentsRemoved: 2, DocumentsPartial: 1, CascadeIncomplete: true,
	}}
	h := NewAuthHandler(accounts, time.Hour)
	e := newEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("deleteDocuments")
	c.SetParamValues("true")
	c.Set("user_id", "u1")

	if err := h.DeleteAccount(c); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !accounts.lastDeleteDoc {
		t.Fatalf("cascade flag not forwarded")
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "" {
		t.Fatalf("session cookie not cleared")
	}

	var resp deleteAccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.DocumentsRemoved != 2 || resp.DocumentsPartial != 1 || !resp.CascadeIncomplete {
		t.Fatalf("cascade outcome not reported: %+v", resp)
	}
}

func TestAuthHandler_DeleteAccount_BadFlag(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, time.Hour)
	e := newEcho()

	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("deleteDocuments")
	c.SetParamValues("maybe")
	c.Set("user_id", "u1")

	err := h.DeleteAccount(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable flag, got %v", err)
	}
}
