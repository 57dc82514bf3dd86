package tokens

import "github.com/golang-jwt/jwt/v5"

const RefreshTokenType = "refresh"

// AccessClaims is the payload of a short-lived access token. Role is
// informational only: authorization re-reads the current role from the store.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the same identity payload plus typ=refresh so a
// refresh token is rejected by access-token code paths even before the
// secret check fails.
type RefreshClaims struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
