package handlers

import (
	"net/http"

	"food-donation-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetLifecycleInfo returns the claim lifecycle for informational purposes
func GetLifecycleInfo(c *gin.Context) {
	info := []gin.H{
		{"from": "claimed", "to": "collected", "actor": "recipient or owning donor"},
		{"from": "claimed", "to": "cancelled", "actor": "recipient or owning donor", "effect": "gathering reopens"},
		{"from": "collected", "to": "cancelled", "actor": "recipient or owning donor", "effect": "gathering reopens"},
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":    statemachine.Statuses(),
		"transitions": info,
		"description": "Food Donation Claim Lifecycle",
	})
}
