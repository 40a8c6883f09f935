package ports

import "github.com/Pizajolo/nft-ticket-registration/core"

// Tokenizer converts between sessions and signed bearer tokens.
type Tokenizer interface {
	// SessionToToken encodes the session identity into a signed token.
	SessionToToken(session core.Session) (string, error)

	// TokenToClaims validates the token signature and embedded expiry and
	// returns the decoded claims. It is a pure check on the token and
	// never consults the session store. Fails with core.ErrInvalidToken
	// on signature or structure problems and core.ErrTokenExpired when
	// the embedded expiry has passed.
	TokenToClaims(token string) (core.SessionClaims, error)
}
