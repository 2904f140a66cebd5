package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-donation-api/config"
	"food-donation-api/models"
	"food-donation-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func register(t *testing.T, r *gin.Engine, name, email string, role models.UserRole) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := resp["token"].(string)
	require.True(t, ok)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter(t)

	token := register(t, r, "Dana Donor", "dana@example.com", models.RoleDonor)
	require.NotEmpty(t, token)

	// The fresh token works against an authenticated endpoint.
	w, resp := doJSON(t, r, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	user := resp["user"].(map[string]any)
	assert.Equal(t, "dana@example.com", user["email"])
	assert.Equal(t, "donor", user["role"])
	assert.NotContains(t, user, "password_hash")

	// Duplicate email is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Dana Again", "email": "dana@example.com",
		"password": "secret123", "role": "donor",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown role is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Eve", "email": "eve@example.com",
		"password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login round trip.
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "dana@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["token"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "dana@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequiresAuthentication(t *testing.T) {
	r := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/gatherings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/gatherings", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGates(t *testing.T) {
	r := setupRouter(t)
	donorToken := register(t, r, "Dana", "dana@example.com", models.RoleDonor)
	recipientToken := register(t, r, "Rita", "rita@example.com", models.RoleRecipient)

	// A recipient cannot post gatherings.
	w, _ := doJSON(t, r, http.MethodPost, "/api/gatherings", recipientToken, gin.H{
		"food_details":   "Soup",
		"available_from": time.Now().Format(time.RFC3339),
		"available_to":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"latitude":       1.0,
		"longitude":      1.0,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A donor cannot claim or browse available gatherings.
	w, _ = doJSON(t, r, http.MethodPost, "/api/claims", donorToken, gin.H{"gathering_id": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/gatherings", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/claims/my-claims", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/claims/for-my-gatherings", recipientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDonationClaimFlow(t *testing.T) {
	r := setupRouter(t)
	donorToken := register(t, r, "Dana", "dana@example.com", models.RoleDonor)
	ritaToken := register(t, r, "Rita", "rita@example.com", models.RoleRecipient)
	remyToken := register(t, r, "Remy", "remy@example.com", models.RoleRecipient)

	// Donor posts a gathering open right now, ~1 km north of the origin.
	w, resp := doJSON(t, r, http.MethodPost, "/api/gatherings", donorToken, gin.H{
		"food_details":   "Surplus bakery goods",
		"available_from": time.Now().Add(-time.Minute).Format(time.RFC3339),
		"available_to":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"latitude":       0.009,
		"longitude":      0.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gathering := resp["gathering"].(map[string]any)
	gatheringID := uint(gathering["id"].(float64))

	// Recipient sees it in the availability listing.
	w, resp = doJSON(t, r, http.MethodGet, "/api/gatherings", ritaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])

	// And in the nearby listing, annotated with its distance.
	w, resp = doJSON(t, r, http.MethodGet, "/api/gatherings/nearby?latitude=0&longitude=0", ritaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, resp["count"])
	nearby := resp["gatherings"].([]any)[0].(map[string]any)
	assert.InDelta(t, 1.0, nearby["distance_km"].(float64), 0.05)

	// Rita claims it.
	w, resp = doJSON(t, r, http.MethodPost, "/api/claims", ritaToken, gin.H{"gathering_id": gatheringID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	claim := resp["claim"].(map[string]any)
	claimID := uint(claim["id"].(float64))
	assert.Equal(t, "claimed", claim["status"])

	// Remy is too late.
	w, _ = doJSON(t, r, http.MethodPost, "/api/claims", remyToken, gin.H{"gathering_id": gatheringID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The taken gathering is visible to the claimant but not to Remy.
	path := fmt.Sprintf("/api/gatherings/%d", gatheringID)
	w, _ = doJSON(t, r, http.MethodGet, path, ritaToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, path, remyToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The donor sees the claim against their gathering.
	w, resp = doJSON(t, r, http.MethodGet, "/api/claims/for-my-gatherings", donorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])

	// Rita cancels; the gathering reopens and Remy can claim it.
	statusPath := fmt.Sprintf("/api/claims/%d/status", claimID)
	w, resp = doJSON(t, r, http.MethodPut, statusPath, ritaToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", resp["claim"].(map[string]any)["status"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/claims", remyToken, gin.H{"gathering_id": gatheringID})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Rita cannot touch Remy's claim.
	w, resp = doJSON(t, r, http.MethodGet, "/api/claims/my-claims", remyToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	remyClaim := resp["claims"].([]any)[0].(map[string]any)
	remyClaimID := uint(remyClaim["id"].(float64))

	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/claims/%d/status", remyClaimID),
		ritaToken, gin.H{"status": "collected"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owning donor can.
	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/claims/%d/status", remyClaimID),
		donorToken, gin.H{"status": "collected"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Bogus status values are rejected.
	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/claims/%d/status", remyClaimID),
		donorToken, gin.H{"status": "devoured"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing claims are a 404, missing gatherings on claim a 404 too.
	w, _ = doJSON(t, r, http.MethodPut, "/api/claims/9999/status", donorToken, gin.H{"status": "collected"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/claims", remyToken, gin.H{"gathering_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNearbyFallsBackToHomeCoordinate(t *testing.T) {
	r := setupRouter(t)
	donorToken := register(t, r, "Dana", "dana@example.com", models.RoleDonor)

	// Recipient registered with a home coordinate near the gathering.
	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Rita", "email": "rita@example.com", "password": "secret123",
		"role": "recipient", "latitude": 0.0, "longitude": 0.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	ritaToken := resp["token"].(string)

	w, _ = doJSON(t, r, http.MethodPost, "/api/gatherings", donorToken, gin.H{
		"food_details":   "Fruit crates",
		"available_from": time.Now().Add(-time.Minute).Format(time.RFC3339),
		"available_to":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"latitude":       0.009,
		"longitude":      0.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/gatherings/nearby", ritaToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, resp["count"])

	// A recipient with no home coordinate must pass one explicitly.
	noHomeToken := register(t, r, "Nadia", "nadia@example.com", models.RoleRecipient)
	w, _ = doJSON(t, r, http.MethodGet, "/api/gatherings/nearby", noHomeToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidWindowRejected(t *testing.T) {
	r := setupRouter(t)
	donorToken := register(t, r, "Dana", "dana@example.com", models.RoleDonor)

	w, _ := doJSON(t, r, http.MethodPost, "/api/gatherings", donorToken, gin.H{
		"food_details":   "Soup",
		"available_from": time.Now().Add(time.Hour).Format(time.RFC3339),
		"available_to":   time.Now().Format(time.RFC3339),
		"latitude":       1.0,
		"longitude":      1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
