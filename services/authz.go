package services

import "food-donation-api/models"

// Authorization policy: stateless predicates over (actor, target).
// Role checks on listing/creation endpoints live in the routing middleware;
// the per-entity ownership rules live here.

// CanViewGathering decides whether an actor may see a single gathering.
// A donor may see only their own. A recipient may see any untaken gathering,
// or a taken one they hold a claim on (any status, including cancelled).
func CanViewGathering(actor *models.User, g *models.Gathering, actorHasClaim bool) bool {
	switch actor.Role {
	case models.RoleDonor:
		return g.DonorID == actor.ID
	case models.RoleRecipient:
		return !g.IsTaken || actorHasClaim
	default:
		return false
	}
}

// CanModifyClaim decides whether an actor may change a claim's status.
// Allowed for the claiming recipient and for the donor who owns the claimed
// gathering; everyone else is rejected even when their role would match.
func CanModifyClaim(actor *models.User, claim *models.Claim, g *models.Gathering) bool {
	switch actor.Role {
	case models.RoleRecipient:
		return claim.RecipientID == actor.ID
	case models.RoleDonor:
		return g.DonorID == actor.ID
	default:
		return false
	}
}
