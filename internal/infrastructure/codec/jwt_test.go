package codec

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maktaba/customer-core/internal/core/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTCodec_Decode(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Unix()
	token := signedToken(t, jwt.MapClaims{
		"sub":         "u-42",
		"email":       "amira@example.com",
		"full_name":   "Amira Haddad",
		"role":        domain.RoleCustomer,
		"is_verified": true,
		"exp":         exp,
	})

	claims, err := NewJWTCodec().Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims.Subject != "u-42" || claims.Email != "amira@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.FullName != "Amira Haddad" || claims.Role != domain.RoleCustomer || !claims.Verified {
		t.Fatalf("profile fields not decoded: %+v", claims)
	}
	if claims.ExpiresAt != exp {
		t.Fatalf("expected exp %d, got %d", exp, claims.ExpiresAt)
	}

	id := claims.Identity()
	if id.ID != "u-42" || id.DisplayName() != "Amira Haddad" {
		t.Fatalf("identity derivation broken: %+v", id)
	}
}

// Decode trusts the payload without checking the signature; a token signed
// with an unknown key still decodes. Verification is the server's job.
func TestJWTCodec_Decode_IgnoresSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	}).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewJWTCodec().Decode(token); err != nil {
		t.Fatalf("unverified decode must succeed: %v", err)
	}
}

func TestJWTCodec_Decode_Garbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := NewJWTCodec().Decode(tok); err == nil {
			t.Fatalf("expected error for %q", tok)
		}
	}
}

func TestJWTCodec_Decode_MissingFields(t *testing.T) {
	noSub := signedToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())})
	if _, err := NewJWTCodec().Decode(noSub); err == nil {
		t.Fatalf("a token without a subject is corrupt")
	}

	noExp := signedToken(t, jwt.MapClaims{"sub": "u-1"})
	if _, err := NewJWTCodec().Decode(noExp); err == nil {
		t.Fatalf("a token without an expiry is corrupt")
	}
}
