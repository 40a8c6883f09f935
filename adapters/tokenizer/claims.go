package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionTokenClaims is the wire shape of a session token: the standard
// registered claims carry the wallet (sub), session ID (jti) and expiry,
// and Typ carries the session role.
type SessionTokenClaims struct {
	jwt.RegisteredClaims
	Typ string `json:"typ"`
}
