package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleDonor     UserRole = "donor"
	RoleRecipient UserRole = "recipient"
)

// ValidRole reports whether r is one of the two supported roles.
// Roles are fixed at registration; there is no role-change operation.
func ValidRole(r UserRole) bool {
	return r == RoleDonor || r == RoleRecipient
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasCoordinate reports whether the user registered a home location.
func (u *User) HasCoordinate() bool {
	return u.Latitude != nil && u.Longitude != nil
}
