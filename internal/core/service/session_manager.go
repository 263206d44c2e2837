package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maktaba/customer-core/internal/core/domain"
	"github.com/maktaba/customer-core/internal/core/ports"
	"github.com/maktaba/customer-core/internal/metrics"
)

const credentialKey = "auth_token"

// loginPath is the entry page Logout navigates to.
const loginPath = "/auth/login"

// Localized fallback messages, shown when the server gives no message of its
// own. UI layers render these verbatim.
const (
	msgLoginFailed    = "فشل في تسجيل الدخول"
	msgRegisterFailed = "فشل في إنشاء الحساب"
)

// SessionManager implements ports.SessionService on top of the auth-service
// transport, the durable store and the credential codec.
//
// State is guarded by a mutex for memory safety, but the lock is never held
// across a network call, matching the cooperative single-thread model of the
// portal this core serves.
type SessionManager struct {
	transport ports.Transport
	store     ports.DurableStore
	codec     ports.CredentialCodec
	nav       ports.Navigator
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time

	mu         sync.Mutex
	identity   *domain.Identity
	credential string
	loading    bool
}

// NewSessionManager wires a SessionManager. nav may be nil when the embedding
// environment has no routing surface.
func NewSessionManager(
	tr ports.Transport,
	store ports.DurableStore,
	codec ports.CredentialCodec,
	nav ports.Navigator,
	log zerolog.Logger,
) *SessionManager {
	if nav == nil {
		nav = noopNavigator{}
	}
	return &SessionManager{
		transport: tr,
		store:     store,
		codec:     codec,
		nav:       nav,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

type noopNavigator struct{}

func (noopNavigator) To(string) {}

// authPayload is the auth-service response body for login and register,
// wrapped in a data envelope.
type authPayload struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

type authEnvelope struct {
	Data authPayload `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// Login authenticates against the auth service. The session and durable
// credential change only on success.
func (s *SessionManager) Login(ctx context.Context, email, password string) ports.AuthResult {
	s.setLoading(true)
	defer s.setLoading(false)

	var resp authEnvelope
	err := s.transport.Post(ctx, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("login failed")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return ports.AuthResult{Success: false, Error: userMessage(err, msgLoginFailed)}
	}

	s.setAuth(resp.Data.Token, resp.Data.User)
	s.store.Set(credentialKey, resp.Data.Token)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return ports.AuthResult{Success: true}
}

// Register creates a customer account. The input is validated locally before
// any network call; the role field sent to the server is always "customer",
// no matter what the caller supplies elsewhere.
func (s *SessionManager) Register(ctx context.Context, in ports.RegisterInput) ports.AuthResult {
	if err := s.validate.Struct(in); err != nil {
		return ports.AuthResult{Success: false, Error: validationMessage(err)}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	req := registerRequest{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     domain.RoleCustomer,
	}

	var resp authEnvelope
	if err := s.transport.Post(ctx, "/auth/register", nil, req, &resp); err != nil {
		s.log.Error().Err(err).Str("email", in.Email).Msg("registration failed")
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return ports.AuthResult{Success: false, Error: userMessage(err, msgRegisterFailed)}
	}

	s.setAuth(resp.Data.Token, resp.Data.User)
	s.store.Set(credentialKey, resp.Data.Token)
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return ports.AuthResult{Success: true}
}

// Logout clears the session and the durable credential, then navigates to the
// login page. Completes locally without a server round-trip.
func (s *SessionManager) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.credential = ""
	s.mu.Unlock()

	s.store.Remove(credentialKey)
	s.nav.To(loginPath)
}

// Restore re-establishes the session from the durably stored credential. The
// decoded payload is the sole source of truth here: no freshness check is made
// against the server. Expired or undecodable credentials are removed from
// storage without any navigation side effect.
func (s *SessionManager) Restore() ports.RestoreOutcome {
	token, ok := s.store.Get(credentialKey)
	if !ok || token == "" {
		return ports.RestoreNone
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored credential corrupt, discarding")
		s.store.Remove(credentialKey)
		metrics.SessionRestoresTotal.WithLabelValues("corrupt").Inc()
		return ports.RestoreCorrupt
	}

	if time.Unix(claims.ExpiresAt, 0).Before(s.now()) {
		s.log.Debug().Msg("stored credential expired, discarding")
		s.store.Remove(credentialKey)
		metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
		return ports.RestoreExpired
	}

	identity := claims.Identity()
	s.setAuth(token, identity)
	metrics.SessionRestoresTotal.WithLabelValues("ok").Inc()
	return ports.RestoreOK
}

// Refresh replaces the identity with the auth service's current view. A failed
// refresh is an invalid session, not a transient error: the corrective action
// is a full logout.
func (s *SessionManager) Refresh(ctx context.Context) ports.RefreshOutcome {
	headers := s.AuthHeaders()
	if len(headers) == 0 {
		return ports.RefreshSkipped
	}

	var identity domain.Identity
	if err := s.transport.Get(ctx, "/auth/me", headers, &identity); err != nil {
		s.log.Warn().Err(err).Msg("identity refresh failed, logging out")
		s.Logout()
		return ports.RefreshInvalidated
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
	return ports.RefreshOK
}

// AuthHeaders returns the bearer authorization header for the current
// credential, or an empty map when none is held.
func (s *SessionManager) AuthHeaders() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.credential}
}

// Authenticated reports whether an unexpired credential was held at last check.
func (s *SessionManager) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != "" && s.identity != nil
}

// Identity returns a copy of the current identity, or nil.
func (s *SessionManager) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	clone := *s.identity
	return &clone
}

// Loading reports whether a login or register call is in flight, letting
// callers disable duplicate submissions.
func (s *SessionManager) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsCustomer reports whether the current identity has the customer role.
func (s *SessionManager) IsCustomer() bool { return s.hasRole(domain.RoleCustomer) }

// IsVendor reports whether the current identity has the vendor role.
func (s *SessionManager) IsVendor() bool { return s.hasRole(domain.RoleVendor) }

// IsAdmin reports whether the current identity has the admin role.
func (s *SessionManager) IsAdmin() bool { return s.hasRole(domain.RoleAdmin) }

func (s *SessionManager) hasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.identity.Role == role
}

func (s *SessionManager) setAuth(token string, identity domain.Identity) {
	s.mu.Lock()
	s.credential = token
	s.identity = &identity
	s.mu.Unlock()
}

func (s *SessionManager) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// userMessage prefers the server's own user-facing message over the localized
// fallback.
func userMessage(err error, fallback string) string {
	var se *ports.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
