package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pizajolo/nft-ticket-registration/service"
)

// Options carries the transport-level configuration.
type Options struct {
	SessionCookieName string
	CSRFCookieName    string
	SessionTTL        time.Duration
	Production        bool
}

// Handlers contains the HTTP handlers for the session and admin endpoints.
type Handlers struct {
	sessions   *service.SessionService
	challenges *service.ChallengeService
	admins     *service.AdminService
	activities *service.ActivityService

	sessionCookieName string
	csrfCookieName    string
	sessionTTL        time.Duration
	production        bool
}

// NewHandlers creates the handler set.
func NewHandlers(
	sessions *service.SessionService,
	challenges *service.ChallengeService,
	admins *service.AdminService,
	activities *service.ActivityService,
	opts Options,
) *Handlers {
	return &Handlers{
		sessions:          sessions,
		challenges:        challenges,
		admins:            admins,
		activities:        activities,
		sessionCookieName: opts.SessionCookieName,
		csrfCookieName:    opts.CSRFCookieName,
		sessionTTL:        opts.SessionTTL,
		production:        opts.Production,
	}
}

func (h *Handlers) handleError(c *gin.Context, err error) {
	status, message := statusForError(err, h.production)
	respondError(c, status, message)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CSRFToken issues a fresh CSRF cookie and returns the token in the body
// so the frontend can echo it in the x-csrf-token header.
func (h *Handlers) CSRFToken(c *gin.Context) {
	token, err := generateCSRFToken()
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setCSRFCookie(c, token)
	respondOK(c, gin.H{"token": token})
}

// Nonce issues a sign challenge for the wallet.
func (h *Handlers) Nonce(c *gin.Context) {
	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	challenge, err := h.challenges.CreateSignChallenge(req.Wallet)
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

// SIWE verifies a signed challenge message and opens a user session.
func (h *Handlers) SIWE(c *gin.Context) {
	var req struct {
		Wallet    string `json:"wallet" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	token, session, err := h.challenges.VerifySignChallenge(c.Request.Context(), req.Wallet, req.Signature, req.Message)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	respondOK(c, gin.H{
		"message": "Session created successfully",
		"session": gin.H{
			"wallet":    session.Wallet,
			"sessionId": session.ID,
			"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// ChallengeCreate opens a value-transfer challenge for the wallet.
func (h *Handlers) ChallengeCreate(c *gin.Context) {
	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	challenge, err := h.challenges.CreateValueChallenge(c.Request.Context(), req.Wallet)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondOK(c, gin.H{
		"challengeId":    challenge.ID,
		"amount":         challenge.Amount,
		"depositAddress": challenge.DepositAddress,
		"expiresAt":      challenge.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// ChallengeVerify consumes a value-transfer challenge and opens a user
// session for its wallet.
func (h *Handlers) ChallengeVerify(c *gin.Context) {
	var req struct {
		ChallengeID string `json:"challengeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	token, session, err := h.challenges.VerifyValueChallenge(c.Request.Context(), req.ChallengeID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	respondOK(c, gin.H{
		"message": "Challenge verified and session created",
		"session": gin.H{
			"wallet":    session.Wallet,
			"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// Me returns the authenticated identity and the stored session expiry.
func (h *Handlers) Me(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid session")
		return
	}

	session, err := h.sessions.Session(c.Request.Context(), identity.SessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondOK(c, gin.H{
		"wallet":    identity.Wallet,
		"type":      identity.Role,
		"sessionId": identity.SessionID,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout invalidates the current session and clears the cookie.
func (h *Handlers) Logout(c *gin.Context) {
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
	respondOK(c, gin.H{"message": "Logged out successfully"})
}
