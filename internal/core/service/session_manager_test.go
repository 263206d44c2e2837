package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/maktaba/customer-core/internal/core/domain"
	"github.com/maktaba/customer-core/internal/core/ports"
)

func newTestSession(tr *stubTransport, store *stubStore, codec *stubCodec, nav *stubNavigator) *SessionManager {
	if tr == nil {
		tr = &stubTransport{}
	}
	if store == nil {
		store = newStubStore()
	}
	if codec == nil {
		codec = &stubCodec{}
	}
	return NewSessionManager(tr, store, codec, nav, testLogger())
}

func validClaims(exp time.Time) *domain.CredentialClaims {
	return &domain.CredentialClaims{
		Subject:   "u-1",
		Email:     "amira@example.com",
		FullName:  "Amira Haddad",
		Role:      domain.RoleCustomer,
		Verified:  true,
		ExpiresAt: exp.Unix(),
	}
}

func TestSessionManager_Restore_NoCredential(t *testing.T) {
	tr := &stubTransport{}
	s := newTestSession(tr, nil, nil, nil)

	if got := s.Restore(); got != ports.RestoreNone {
		t.Fatalf("expected RestoreNone, got %v", got)
	}
	if s.Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
	if len(tr.calls) != 0 {
		t.Fatalf("restore must not touch the network, got %v", tr.calls)
	}
}

func TestSessionManager_Restore_Valid(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "tok-good")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok-good": validClaims(time.Now().Add(time.Hour)),
	}}
	tr := &stubTransport{}
	s := newTestSession(tr, store, codec, nil)

	if got := s.Restore(); got != ports.RestoreOK {
		t.Fatalf("expected RestoreOK, got %v", got)
	}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	id := s.Identity()
	if id == nil || id.ID != "u-1" || id.Email != "amira@example.com" || !id.Verified {
		t.Fatalf("identity not derived from claims: %+v", id)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("restore must not call the server, got %v", tr.calls)
	}
	if got := s.AuthHeaders()["Authorization"]; got != "Bearer tok-good" {
		t.Fatalf("unexpected auth header %q", got)
	}
}

func TestSessionManager_Restore_Expired(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "tok-old")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok-old": validClaims(time.Now().Add(-time.Minute)),
	}}
	nav := &stubNavigator{}
	s := newTestSession(nil, store, codec, nav)

	if got := s.Restore(); got != ports.RestoreExpired {
		t.Fatalf("expected RestoreExpired, got %v", got)
	}
	if s.Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Fatalf("expired credential must be removed from storage")
	}
	if len(nav.paths) != 0 {
		t.Fatalf("restore is silent, got navigation to %v", nav.paths)
	}
}

func TestSessionManager_Restore_ExpiryBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newStubStore()
	store.Set("auth_token", "tok")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok": validClaims(now.Add(time.Second)),
	}}
	s := newTestSession(nil, store, codec, nil)
	s.now = func() time.Time { return now }

	if got := s.Restore(); got != ports.RestoreOK {
		t.Fatalf("credential expiring in the future must restore, got %v", got)
	}
}

func TestSessionManager_Restore_Corrupt(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "garbage")
	s := newTestSession(nil, store, &stubCodec{}, nil)

	if got := s.Restore(); got != ports.RestoreCorrupt {
		t.Fatalf("expected RestoreCorrupt, got %v", got)
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Fatalf("corrupt credential must be removed from storage")
	}
	if s.Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
}

func TestSessionManager_Login_Success(t *testing.T) {
	store := newStubStore()
	tr := &stubTransport{
		postFn: func(path string, _ map[string]string, body, out any) error {
			if path != "/auth/login" {
				return fmt.Errorf("unexpected path %s", path)
			}
			req := body.(loginRequest)
			if req.Email != "amira@example.com" || req.Password != "s3cret-pass" {
				return errors.New("wrong credentials forwarded")
			}
			respond(t, out, authEnvelope{Data: authPayload{
				Token: "tok-123",
				User:  domain.Identity{ID: "u-1", Email: req.Email, FullName: "Amira Haddad", Role: domain.RoleCustomer},
			}})
			return nil
		},
	}
	s := newTestSession(tr, store, nil, nil)

	res := s.Login(context.Background(), "amira@example.com", "s3cret-pass")
	if !res.Success {
		t.Fatalf("login failed: %s", res.Error)
	}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if tok, _ := store.Get("auth_token"); tok != "tok-123" {
		t.Fatalf("credential not persisted, got %q", tok)
	}
	if s.Loading() {
		t.Fatalf("loading flag must clear after the call")
	}
}

func TestSessionManager_Login_ServerMessage(t *testing.T) {
	store := newStubStore()
	tr := &stubTransport{
		postFn: func(path string, _ map[string]string, _, _ any) error {
			return fmt.Errorf("POST %s: %w", path, &ports.StatusError{Status: 401, Message: "بيانات الدخول غير صحيحة"})
		},
	}
	s := newTestSession(tr, store, nil, nil)

	res := s.Login(context.Background(), "amira@example.com", "wrong")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "بيانات الدخول غير صحيحة" {
		t.Fatalf("expected server message verbatim, got %q", res.Error)
	}
	if s.Authenticated() {
		t.Fatalf("failed login must leave session unchanged")
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Fatalf("failed login must not write storage")
	}
}

func TestSessionManager_Login_FallbackMessage(t *testing.T) {
	tr := &stubTransport{
		postFn: func(string, map[string]string, any, any) error {
			return errors.New("connection refused")
		},
	}
	s := newTestSession(tr, nil, nil, nil)

	res := s.Login(context.Background(), "amira@example.com", "pw")
	if res.Success || res.Error != msgLoginFailed {
		t.Fatalf("expected localized fallback, got %+v", res)
	}
}

func TestSessionManager_Register_ForcesCustomerRole(t *testing.T) {
	var sent registerRequest
	tr := &stubTransport{
		postFn: func(path string, _ map[string]string, body, out any) error {
			if path != "/auth/register" {
				return fmt.Errorf("unexpected path %s", path)
			}
			sent = body.(registerRequest)
			respond(t, out, authEnvelope{Data: authPayload{
				Token: "tok-new",
				User:  domain.Identity{ID: "u-2", Email: sent.Email, Role: domain.RoleCustomer},
			}})
			return nil
		},
	}
	s := newTestSession(tr, nil, nil, nil)

	res := s.Register(context.Background(), ports.RegisterInput{
		Email:    "karim@example.com",
		Password: "longenough",
		FullName: "Karim Said",
	})
	if !res.Success {
		t.Fatalf("register failed: %s", res.Error)
	}
	if sent.Role != domain.RoleCustomer {
		t.Fatalf("register must always send the customer role, sent %q", sent.Role)
	}
}

func TestSessionManager_Register_ValidationRejects(t *testing.T) {
	tr := &stubTransport{}
	s := newTestSession(tr, nil, nil, nil)

	cases := []ports.RegisterInput{
		{Email: "not-an-email", Password: "longenough", FullName: "X"},
		{Email: "a@b.com", Password: "short", FullName: "X"},
		{Email: "a@b.com", Password: "longenough", FullName: ""},
	}
	for _, in := range cases {
		res := s.Register(context.Background(), in)
		if res.Success {
			t.Fatalf("expected validation failure for %+v", in)
		}
		if res.Error == "" {
			t.Fatalf("validation failure needs a user-facing message")
		}
	}
	if len(tr.calls) != 0 {
		t.Fatalf("invalid input must not reach the network, got %v", tr.calls)
	}
}

func TestSessionManager_Logout_ClearsAndNavigates(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "tok")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok": validClaims(time.Now().Add(time.Hour)),
	}}
	nav := &stubNavigator{}
	s := newTestSession(nil, store, codec, nav)
	s.Restore()

	s.Logout()

	if s.Authenticated() || s.Identity() != nil {
		t.Fatalf("logout must clear the session")
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Fatalf("logout must clear the durable credential")
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/auth/login" {
		t.Fatalf("expected navigation to /auth/login, got %v", nav.paths)
	}
	if len(s.AuthHeaders()) != 0 {
		t.Fatalf("no headers after logout")
	}
}

func TestSessionManager_Refresh_ReplacesIdentity(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "tok")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok": validClaims(time.Now().Add(time.Hour)),
	}}
	tr := &stubTransport{
		getFn: func(path string, headers map[string]string, out any) error {
			if path != "/auth/me" {
				return fmt.Errorf("unexpected path %s", path)
			}
			if headers["Authorization"] != "Bearer tok" {
				return errors.New("missing bearer header")
			}
			respond(t, out, domain.Identity{ID: "u-1", Email: "amira@example.com", FullName: "Amira H.", Role: domain.RoleVendor, Verified: true})
			return nil
		},
	}
	s := newTestSession(tr, store, codec, nil)
	s.Restore()

	if got := s.Refresh(context.Background()); got != ports.RefreshOK {
		t.Fatalf("expected RefreshOK, got %v", got)
	}
	id := s.Identity()
	if id.FullName != "Amira H." || id.Role != domain.RoleVendor {
		t.Fatalf("identity not replaced: %+v", id)
	}
	if !s.IsVendor() || s.IsCustomer() {
		t.Fatalf("role views must follow the refreshed identity")
	}
}

func TestSessionManager_Refresh_FailureLogsOut(t *testing.T) {
	store := newStubStore()
	store.Set("auth_token", "tok")
	codec := &stubCodec{claims: map[string]*domain.CredentialClaims{
		"tok": validClaims(time.Now().Add(time.Hour)),
	}}
	tr := &stubTransport{
		getFn: func(string, map[string]string, any) error {
			return fmt.Errorf("GET /auth/me: %w", &ports.StatusError{Status: 401, Message: "invalid token"})
		},
	}
	nav := &stubNavigator{}
	s := newTestSession(tr, store, codec, nav)
	s.Restore()

	if got := s.Refresh(context.Background()); got != ports.RefreshInvalidated {
		t.Fatalf("expected RefreshInvalidated, got %v", got)
	}
	if s.Authenticated() {
		t.Fatalf("failed refresh must log out")
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Fatalf("failed refresh must clear the durable credential")
	}
	if len(nav.paths) != 1 {
		t.Fatalf("logout side effect expected, got %v", nav.paths)
	}
}

func TestSessionManager_Refresh_NoCredential(t *testing.T) {
	tr := &stubTransport{}
	s := newTestSession(tr, nil, nil, nil)

	if got := s.Refresh(context.Background()); got != ports.RefreshSkipped {
		t.Fatalf("expected RefreshSkipped, got %v", got)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("refresh without credential must not call the server")
	}
}

func TestSessionManager_AuthHeaders_Empty(t *testing.T) {
	s := newTestSession(nil, nil, nil, nil)
	if h := s.AuthHeaders(); len(h) != 0 {
		t.Fatalf("expected empty headers, got %v", h)
	}
}
