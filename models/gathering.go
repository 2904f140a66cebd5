package models

import "time"

type Gathering struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	DonorID       uint      `json:"donor_id" gorm:"not null;index"`
	FoodDetails   string    `json:"food_details" gorm:"not null"`
	AvailableFrom time.Time `json:"available_from" gorm:"not null"`
	AvailableTo   time.Time `json:"available_to" gorm:"not null"`
	Latitude      float64   `json:"latitude" gorm:"not null"`
	Longitude     float64   `json:"longitude" gorm:"not null"`
	IsTaken       bool      `json:"is_taken" gorm:"not null;default:false"`

	// DistanceKm is filled in by the nearby query; it is never persisted.
	DistanceKm float64 `json:"distance_km,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailableAt reports whether the gathering's window covers the given instant.
func (g *Gathering) AvailableAt(now time.Time) bool {
	return !now.Before(g.AvailableFrom) && !now.After(g.AvailableTo)
}
