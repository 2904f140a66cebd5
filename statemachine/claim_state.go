package statemachine

import (
	"errors"

	"food-donation-api/models"
)

// The claim lifecycle is deliberately permissive: any of the three statuses
// may be requested at any time, matching the behaviour clients depend on.
// The only transition with a side effect is the one into "cancelled" from a
// non-cancelled status, which releases the underlying gathering.

var validStatuses = []models.ClaimStatus{
	models.StatusClaimed,
	models.StatusCollected,
	models.StatusCancelled,
}

var statusSet = func() map[models.ClaimStatus]bool {
	m := make(map[models.ClaimStatus]bool, len(validStatuses))
	for _, s := range validStatuses {
		m[s] = true
	}
	return m
}()

// ValidStatus checks that a requested status is one of the known values.
func ValidStatus(s models.ClaimStatus) error {
	if statusSet[s] {
		return nil
	}
	return errors.New(
		"invalid status '" + string(s) + "'. Must be one of: " + describeStatuses(),
	)
}

// Reopens reports whether moving from one status to another must release
// the claimed gathering (reset its taken flag). Only the transition into
// "cancelled" from a status that is not already "cancelled" does.
func Reopens(from, to models.ClaimStatus) bool {
	return to == models.StatusCancelled && from != models.StatusCancelled
}

// Statuses returns all valid claim statuses for documentation.
func Statuses() []models.ClaimStatus {
	return validStatuses
}

func describeStatuses() string {
	result := ""
	for i, s := range validStatuses {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}
