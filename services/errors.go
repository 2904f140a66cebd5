// Package services implements the business core: availability and proximity
// queries, the claim lifecycle, and the authorization policy. Handlers stay
// thin and map the sentinel errors below onto HTTP status codes.
package services

import "errors"

// ErrGatheringNotFound is returned when a referenced gathering does not exist.
var ErrGatheringNotFound = errors.New("gathering not found")

// ErrGatheringTaken is returned when a gathering already has an active claim.
// Kept distinct from ErrGatheringNotFound so clients can tell "gone" from
// "someone beat you to it".
var ErrGatheringTaken = errors.New("gathering already claimed")

// ErrClaimNotFound is returned when a referenced claim does not exist.
var ErrClaimNotFound = errors.New("claim not found")

// ErrForbidden is returned when the authorization policy rejects the actor.
var ErrForbidden = errors.New("not authorized")

// ErrInvalidStatus is returned for a status value outside the claim lifecycle.
var ErrInvalidStatus = errors.New("invalid claim status")

// ErrInvalidWindow is returned when available_from is after available_to.
var ErrInvalidWindow = errors.New("available_from must not be after available_to")
