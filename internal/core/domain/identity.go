package domain

import "errors"

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

var ErrCredentialCorrupt = errors.New("credential corrupt")

// Identity models the user-facing profile derived from a decoded credential.
// It is never constructed from user input; the credential is its only source.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Verified bool   `json:"is_verified"`
}

// DisplayName returns the full name, falling back to the email address.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Email
}

// CredentialClaims is the payload embedded in a signed credential token.
// ExpiresAt is a unix timestamp in seconds.
type CredentialClaims struct {
	Subject   string
	Email     string
	FullName  string
	Role      string
	Verified  bool
	ExpiresAt int64
}

// Identity derives the profile fields carried by the claims.
func (c CredentialClaims) Identity() Identity {
	return Identity{
		ID:       c.Subject,
		Email:    c.Email,
		FullName: c.FullName,
		Role:     c.Role,
		Verified: c.Verified,
	}
}
