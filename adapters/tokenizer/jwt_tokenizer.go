package tokenizer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// MinSecretLen is the minimum accepted signing secret length in bytes.
const MinSecretLen = 32

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs.
type JWTTokenizer struct {
	secret []byte
}

// NewJWTTokenizer creates a new JWT tokenizer. The secret must be at
// least MinSecretLen bytes.
func NewJWTTokenizer(secret []byte) (ports.Tokenizer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	return &JWTTokenizer{secret: secret}, nil
}

// SessionToToken encodes a session into a signed JWT.
func (j *JWTTokenizer) SessionToToken(session core.Session) (string, error) {
	claims := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Wallet,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Typ: string(session.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// TokenToClaims validates the token signature and embedded expiry and
// decodes the session claims. It never consults the session store.
func (j *JWTTokenizer) TokenToClaims(tokenStr string) (core.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return core.SessionClaims{}, core.ErrTokenExpired
		}
		return core.SessionClaims{}, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionTokenClaims)
	if !ok || !token.Valid {
		return core.SessionClaims{}, core.ErrInvalidToken
	}

	role, err := core.ParseRole(claims.Typ)
	if err != nil {
		return core.SessionClaims{}, core.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return core.SessionClaims{}, core.ErrInvalidToken
	}

	return core.SessionClaims{
		Wallet:    claims.Subject,
		Role:      role,
		SessionID: claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
