// Package codec decodes signed credential tokens. Signature verification is
// deliberately absent: the token is minted and verified server-side, and this
// client only needs the payload it already trusts.
package codec

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maktaba/customer-core/internal/core/domain"
)

// JWTCodec decodes JWT credentials into domain claims.
type JWTCodec struct {
	parser *jwt.Parser
}

func NewJWTCodec() *JWTCodec {
	return &JWTCodec{parser: jwt.NewParser()}
}

// Decode extracts the identity payload from a credential token. A token
// without a subject or expiry is treated as corrupt.
func (c *JWTCodec) Decode(token string) (*domain.CredentialClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("decode credential: %w", domain.ErrCredentialCorrupt)
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("decode credential: missing expiry: %w", domain.ErrCredentialCorrupt)
	}

	email, _ := claims["email"].(string)
	fullName, _ := claims["full_name"].(string)
	role, _ := claims["role"].(string)
	verified, _ := claims["is_verified"].(bool)

	return &domain.CredentialClaims{
		Subject:   sub,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		Verified:  verified,
		ExpiresAt: int64(exp),
	}, nil
}
