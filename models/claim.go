package models

import "time"

// ClaimStatus represents the lifecycle state of a claim
type ClaimStatus string

const (
	StatusClaimed   ClaimStatus = "claimed"
	StatusCollected ClaimStatus = "collected"
	StatusCancelled ClaimStatus = "cancelled"
)

type Claim struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	RecipientID uint        `json:"recipient_id" gorm:"not null;index"`
	GatheringID uint        `json:"gathering_id" gorm:"not null;index"`
	ClaimTime   time.Time   `json:"claim_time" gorm:"not null"`
	Status      ClaimStatus `json:"status" gorm:"not null;default:'claimed'"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
