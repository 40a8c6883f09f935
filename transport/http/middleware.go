package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/service"
)

const identityKey = "identity"

// Identity is the authenticated principal attached to the request context.
type Identity struct {
	Wallet    string
	Role      core.Role
	SessionID string
}

// RoleAny accepts both user and admin sessions.
const RoleAny core.Role = ""

// resolveSession extracts the bearer token from the session cookie and
// runs the two-layer check: token signature+expiry, then the
// authoritative store. Both must pass.
func resolveSession(c *gin.Context, sessions *service.SessionService, cookieName string) (Identity, bool) {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return Identity{}, false
	}

	claims, err := sessions.Verify(token)
	if err != nil {
		return Identity{}, false
	}

	if !sessions.IsValid(c.Request.Context(), claims.SessionID) {
		return Identity{}, false
	}

	return Identity{
		Wallet:    claims.Wallet,
		Role:      claims.Role,
		SessionID: claims.SessionID,
	}, true
}

// RequireSession rejects requests without a valid session. Every
// authentication failure gets the same response, so callers cannot
// distinguish a missing cookie from an expired token or a revoked
// session. A role other than RoleAny additionally enforces that role.
func RequireSession(sessions *service.SessionService, cookieName string, role core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := resolveSession(c, sessions, cookieName)
		if !ok {
			abortError(c, http.StatusUnauthorized, "Invalid session")
			return
		}

		if role != RoleAny && identity.Role != role {
			abortError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalSession attaches an identity when a valid session is present
// and proceeds without one otherwise.
func OptionalSession(sessions *service.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := resolveSession(c, sessions, cookieName); ok {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity set by RequireSession or
// OptionalSession, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
