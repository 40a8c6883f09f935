package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

// record appends an audit entry for a privileged action; failures are
// logged rather than surfaced since the action itself already happened.
func (h *Handlers) record(ctx context.Context, typ core.ActivityType, adminWallet string, details map[string]string) {
	if _, err := h.activities.Record(ctx, typ, adminWallet, details); err != nil {
		log.Warn().Err(err).Str("type", string(typ)).Msg("failed to record activity")
	}
}

// AdminPasswordLogin authenticates an admin with email and password.
func (h *Handlers) AdminPasswordLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	token, session, err := h.admins.PasswordLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	h.record(c.Request.Context(), core.ActivityAdminLogin, session.Wallet, map[string]string{"method": "password"})

	respondOK(c, gin.H{
		"message": "Admin login successful",
		"session": gin.H{
			"wallet":    session.Wallet,
			"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// AdminWalletNonce issues an admin sign challenge. Wallets other than the
// configured admin wallet are rejected before any challenge exists.
func (h *Handlers) AdminWalletNonce(c *gin.Context) {
	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	challenge, err := h.admins.WalletNonce(req.Wallet)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondOK(c, gin.H{
		"nonce":     challenge.Nonce,
		"message":   challenge.Message,
		"expiresAt": challenge.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// AdminWalletLogin verifies a signed admin challenge and opens an admin
// session.
func (h *Handlers) AdminWalletLogin(c *gin.Context) {
	var req struct {
		Wallet    string `json:"wallet" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	token, session, err := h.admins.WalletLogin(c.Request.Context(), req.Wallet, req.Signature, req.Message)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	h.record(c.Request.Context(), core.ActivityAdminLogin, session.Wallet, map[string]string{"method": "wallet"})

	respondOK(c, gin.H{
		"message": "Admin login successful",
		"session": gin.H{
			"wallet":    session.Wallet,
			"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// AdminLogout invalidates the admin session and clears the cookie.
func (h *Handlers) AdminLogout(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid session")
		return
	}

	if _, err := h.sessions.Invalidate(c.Request.Context(), identity.SessionID); err != nil {
		h.handleError(c, err)
		return
	}

	h.clearSessionCookie(c)
	h.record(c.Request.Context(), core.ActivityAdminLogout, identity.Wallet, nil)
	respondOK(c, gin.H{"message": "Logged out successfully"})
}

// AdminSessionsCleanup sweeps expired sessions on demand.
func (h *Handlers) AdminSessionsCleanup(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	removed := h.sessions.CleanupExpired(c.Request.Context())
	h.record(c.Request.Context(), core.ActivitySessionsCleaned, identity.Wallet, map[string]string{
		"removed": strconv.Itoa(removed),
	})

	respondOK(c, gin.H{"removed": removed})
}

// AdminInvalidateWallet force-logs-out every session of a wallet.
func (h *Handlers) AdminInvalidateWallet(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	removed, err := h.sessions.InvalidateAllForWallet(c.Request.Context(), req.Wallet)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.record(c.Request.Context(), core.ActivitySessionsInvalidated, identity.Wallet, map[string]string{
		"targetWallet": core.NormalizeWallet(req.Wallet),
		"removed":      strconv.Itoa(removed),
	})

	respondOK(c, gin.H{"removed": removed})
}

// AdminSessionsStats returns the session store snapshot.
func (h *Handlers) AdminSessionsStats(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, stats)
}

// AdminActivities lists recent audit entries, optionally filtered by type
// or acting wallet.
func (h *Handlers) AdminActivities(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "Invalid request data")
			return
		}
		limit = n
	}

	var (
		activities []core.Activity
		err        error
	)
	switch {
	case c.Query("type") != "":
		activities, err = h.activities.ByType(c.Request.Context(), core.ActivityType(c.Query("type")), limit)
	case c.Query("wallet") != "":
		activities, err = h.activities.ByWallet(c.Request.Context(), c.Query("wallet"), limit)
	default:
		activities, err = h.activities.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondOK(c, gin.H{"activities": activities})
}
