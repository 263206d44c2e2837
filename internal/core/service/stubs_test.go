package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maktaba/customer-core/internal/core/domain"
)

// stubTransport records every call and delegates to programmable handlers.
type stubTransport struct {
	calls  []string
	getFn  func(path string, headers map[string]string, out any) error
	postFn func(path string, headers map[string]string, body, out any) error
}

func (t *stubTransport) Get(_ context.Context, path string, headers map[string]string, out any) error {
	t.calls = append(t.calls, "GET "+path)
	if t.getFn == nil {
		return fmt.Errorf("unexpected GET %s", path)
	}
	return t.getFn(path, headers, out)
}

func (t *stubTransport) Post(_ context.Context, path string, headers map[string]string, body, out any) error {
	t.calls = append(t.calls, "POST "+path)
	if t.postFn == nil {
		return fmt.Errorf("unexpected POST %s", path)
	}
	return t.postFn(path, headers, body, out)
}

// respond marshals v into the transport's out parameter, mimicking a decoded
// JSON response body.
func respond(t *testing.T, out, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal stub response: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal stub response: %v", err)
	}
}

// stubStore is an in-memory DurableStore.
type stubStore struct {
	values map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *stubStore) Set(key, value string) { s.values[key] = value }
func (s *stubStore) Remove(key string)     { delete(s.values, key) }

// stubCodec maps known tokens to claims and fails everything else.
type stubCodec struct {
	claims map[string]*domain.CredentialClaims
}

func (c *stubCodec) Decode(token string) (*domain.CredentialClaims, error) {
	if cl, ok := c.claims[token]; ok {
		clone := *cl
		return &clone, nil
	}
	return nil, errors.New("malformed token")
}

// stubNavigator records navigation targets.
type stubNavigator struct {
	paths []string
}

func (n *stubNavigator) To(path string) { n.paths = append(n.paths, path) }

// stubSession is the minimal session view the cart depends on.
type stubSession struct {
	authenticated bool
	headers       map[string]string
}

func (s *stubSession) Authenticated() bool { return s.authenticated }

func (s *stubSession) AuthHeaders() map[string]string {
	if s.headers == nil {
		return map[string]string{}
	}
	return s.headers
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
