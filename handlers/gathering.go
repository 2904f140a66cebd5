package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"food-donation-api/config"
	"food-donation-api/middleware"
	"food-donation-api/services"

	"github.com/gin-gonic/gin"
)

type CreateGatheringRequest struct {
	FoodDetails   string    `json:"food_details" binding:"required"`
	AvailableFrom time.Time `json:"available_from" binding:"required"`
	AvailableTo   time.Time `json:"available_to" binding:"required"`
	Latitude      *float64  `json:"latitude" binding:"required"`
	Longitude     *float64  `json:"longitude" binding:"required"`
}

// CreateGathering posts a new food gathering (donor only)
func CreateGathering(c *gin.Context) {
	donorID := middleware.GetUserID(c)

	var req CreateGatheringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewGatheringService(config.DB)
	gathering, err := svc.Create(c.Request.Context(), donorID, services.CreateGatheringInput{
		FoodDetails:   req.FoodDetails,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Gathering posted successfully",
		"gathering": gathering,
	})
}

// ListAvailableGatherings returns gatherings open for claiming right now
// (recipient only)
func ListAvailableGatherings(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	svc := services.NewGatheringService(config.DB)
	gatherings, err := svc.ListAvailable(c.Request.Context(), time.Now(), skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(gatherings),
		"gatherings": gatherings,
	})
}

// ListNearbyGatherings returns available gatherings within a radius of the
// query coordinate, closest first (recipient only). Falls back to the
// recipient's registered home coordinate when no query coordinate is given.
func ListNearbyGatherings(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	latStr := c.Query("latitude")
	lonStr := c.Query("longitude")

	var latitude, longitude float64
	switch {
	case latStr != "" && lonStr != "":
		var latErr, lonErr error
		latitude, latErr = strconv.ParseFloat(latStr, 64)
		longitude, lonErr = strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude must be decimal degrees"})
			return
		}
	case actor.HasCoordinate():
		latitude = *actor.Latitude
		longitude = *actor.Longitude
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required (no home location on profile)"})
		return
	}

	maxDistance := services.DefaultMaxDistanceKm
	if mdStr := c.Query("max_distance"); mdStr != "" {
		md, err := strconv.ParseFloat(mdStr, 64)
		if err != nil || md <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_distance must be a positive number of kilometers"})
			return
		}
		maxDistance = md
	}

	svc := services.NewGatheringService(config.DB)
	gatherings, err := svc.ListNearby(c.Request.Context(), latitude, longitude, maxDistance, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":           len(gatherings),
		"max_distance_km": maxDistance,
		"gatherings":      gatherings,
	})
}

// GetMyDonations returns all gatherings posted by the donor (donor only)
func GetMyDonations(c *gin.Context) {
	donorID := middleware.GetUserID(c)

	svc := services.NewGatheringService(config.DB)
	gatherings, err := svc.ListByDonor(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(gatherings),
		"gatherings": gatherings,
	})
}

// GetGathering returns a single gathering, subject to the view policy
func GetGathering(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gathering id"})
		return
	}

	svc := services.NewGatheringService(config.DB)
	gathering, err := svc.Get(c.Request.Context(), actor, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gathering": gathering})
}

// respondServiceError maps service sentinel errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGatheringNotFound),
		errors.Is(err, services.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGatheringTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
