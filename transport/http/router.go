package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

// SetupRouter assembles the Gin router: rate limiting, CSRF protection,
// session resolution and role checks compose in that order.
func SetupRouter(h *Handlers) *gin.Engine {
	router := gin.Default()

	general := NewRateLimiter(generalLimit, generalWindow)
	auth := NewRateLimiter(authLimit, authWindow)
	admin := NewRateLimiter(adminLimit, adminWindow)

	router.Use(GeneralRateLimit(general))
	router.Use(CSRFProtection(h.csrfCookieName, h.production))

	router.GET("/healthz", h.Healthz)

	session := router.Group("/api/session")
	{
		session.GET("/csrf", h.CSRFToken)
		session.POST("/nonce", AuthRateLimit(auth), h.Nonce)
		session.POST("/siwe", AuthRateLimit(auth), h.SIWE)
		session.POST("/challenge/create", AuthRateLimit(auth), h.ChallengeCreate)
		session.POST("/challenge/verify", AuthRateLimit(auth), h.ChallengeVerify)
		session.GET("/me", RequireSession(h.sessions, h.sessionCookieName, RoleAny), h.Me)
		session.POST("/logout", RequireSession(h.sessions, h.sessionCookieName, RoleAny), h.Logout)
	}

	adminGroup := router.Group("/api/admin")
	{
		adminGroup.POST("/login/password", AuthRateLimit(auth), h.AdminPasswordLogin)
		adminGroup.POST("/login/wallet/nonce", AuthRateLimit(auth), h.AdminWalletNonce)
		adminGroup.POST("/login/wallet/siwe", AuthRateLimit(auth), h.AdminWalletLogin)

		protected := adminGroup.Group("")
		protected.Use(AdminRateLimit(admin))
		protected.Use(RequireSession(h.sessions, h.sessionCookieName, core.RoleAdmin))
		{
			protected.POST("/logout", h.AdminLogout)
			protected.POST("/sessions/cleanup", h.AdminSessionsCleanup)
			protected.POST("/sessions/invalidate-wallet", h.AdminInvalidateWallet)
			protected.GET("/sessions/stats", h.AdminSessionsStats)
			protected.GET("/activities", h.AdminActivities)
		}
	}

	return router
}
