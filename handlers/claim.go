package handlers

import (
	"net/http"
	"strconv"

	"food-donation-api/config"
	"food-donation-api/middleware"
	"food-donation-api/models"
	"food-donation-api/services"

	"github.com/gin-gonic/gin"
)

type CreateClaimRequest struct {
	GatheringID uint `json:"gathering_id" binding:"required"`
}

type UpdateClaimStatusRequest struct {
	Status models.ClaimStatus `json:"status" binding:"required"`
}

// CreateClaim reserves an available gathering for the recipient
// (recipient only)
func CreateClaim(c *gin.Context) {
	recipientID := middleware.GetUserID(c)

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewClaimService(config.DB)
	claim, err := svc.Create(c.Request.Context(), recipientID, req.GatheringID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gathering claimed successfully",
		"claim":   claim,
	})
}

// UpdateClaimStatus moves a claim through its lifecycle. Allowed for the
// claiming recipient and the donor who owns the gathering.
func UpdateClaimStatus(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	claimID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var req UpdateClaimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewClaimService(config.DB)
	claim, err := svc.UpdateStatus(c.Request.Context(), actor, uint(claimID), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Claim status updated",
		"claim":   claim,
	})
}

// GetMyClaims returns the recipient's claims (recipient only)
func GetMyClaims(c *gin.Context) {
	recipientID := middleware.GetUserID(c)

	svc := services.NewClaimService(config.DB)
	claims, err := svc.ListByRecipient(c.Request.Context(), recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(claims),
		"claims": claims,
	})
}

// GetClaimsForMyGatherings returns claims made against the donor's
// gatherings (donor only)
func GetClaimsForMyGatherings(c *gin.Context) {
	donorID := middleware.GetUserID(c)

	svc := services.NewClaimService(config.DB)
	claims, err := svc.ListForDonor(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(claims),
		"claims": claims,
	})
}
