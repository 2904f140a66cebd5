package services

import (
	"testing"
	"time"

	"food-donation-api/config"
	"food-donation-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection so every goroutine sees the same in-memory
	// database and writes serialize instead of hitting SQLITE_BUSY.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()
	user := models.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

type gatheringOpt func(*models.Gathering)

func at(lat, lon float64) gatheringOpt {
	return func(g *models.Gathering) {
		g.Latitude = lat
		g.Longitude = lon
	}
}

func window(from, to time.Time) gatheringOpt {
	return func(g *models.Gathering) {
		g.AvailableFrom = from
		g.AvailableTo = to
	}
}

func taken() gatheringOpt {
	return func(g *models.Gathering) { g.IsTaken = true }
}

func createGathering(t *testing.T, db *gorm.DB, donorID uint, opts ...gatheringOpt) *models.Gathering {
	t.Helper()
	now := time.Now()
	g := models.Gathering{
		DonorID:       donorID,
		FoodDetails:   "Leftover catering trays",
		AvailableFrom: now.Add(-time.Hour),
		AvailableTo:   now.Add(time.Hour),
		Latitude:      0,
		Longitude:     0,
	}
	for _, opt := range opts {
		opt(&g)
	}
	require.NoError(t, db.Create(&g).Error)
	return &g
}

func reloadGathering(t *testing.T, db *gorm.DB, id uint) *models.Gathering {
	t.Helper()
	var g models.Gathering
	require.NoError(t, db.First(&g, id).Error)
	return &g
}
