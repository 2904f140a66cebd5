package routes

import (
	"food-donation-api/handlers"
	"food-donation-api/middleware"
	"food-donation-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Claim lifecycle info (great for docs/Postman)
		public.GET("/lifecycle", handlers.GetLifecycleInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Gatherings ─────────────────────────────────────────────────
	gatherings := r.Group("/api/gatherings")
	gatherings.Use(middleware.AuthRequired())
	{
		gatherings.POST("", middleware.RoleRequired(models.RoleDonor), handlers.CreateGathering)
		gatherings.GET("", middleware.RoleRequired(models.RoleRecipient), handlers.ListAvailableGatherings)
		gatherings.GET("/nearby", middleware.RoleRequired(models.RoleRecipient), handlers.ListNearbyGatherings)
		gatherings.GET("/my-donations", middleware.RoleRequired(models.RoleDonor), handlers.GetMyDonations)

		// View policy for a single gathering is ownership-based, enforced
		// in the service rather than by a role gate.
		gatherings.GET("/:id", handlers.GetGathering)
	}

	// ── Claims ─────────────────────────────────────────────────────
	claims := r.Group("/api/claims")
	claims.Use(middleware.AuthRequired())
	{
		claims.POST("", middleware.RoleRequired(models.RoleRecipient), handlers.CreateClaim)
		claims.GET("/my-claims", middleware.RoleRequired(models.RoleRecipient), handlers.GetMyClaims)
		claims.GET("/for-my-gatherings", middleware.RoleRequired(models.RoleDonor), handlers.GetClaimsForMyGatherings)

		// Either the claiming recipient or the owning donor may update;
		// the service decides.
		claims.PUT("/:id/status", handlers.UpdateClaimStatus)
	}
}
