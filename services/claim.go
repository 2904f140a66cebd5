package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-donation-api/models"
	"food-donation-api/statemachine"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// ClaimService drives the claim lifecycle and keeps the gathering taken flag
// consistent with it: the flag is true exactly while a non-cancelled claim
// references the gathering.
type ClaimService struct {
	db *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// Create claims a gathering for a recipient.
//
// The availability check and the flip to taken must be one atomic unit with
// respect to concurrent claim attempts on the same gathering, or two
// recipients can both walk away believing the food is theirs. The guard is a
// conditional update:
//
//	UPDATE gatherings SET is_taken = true WHERE id = ? AND is_taken = false
//
// Exactly one concurrent transaction can match the WHERE clause; everyone
// else sees zero affected rows. The claim row is inserted in the same
// transaction, so a failure leaves neither table modified.
//
// SQLite reports write contention as a busy/locked error rather than
// blocking, so the whole transaction is retried a few times with backoff
// before the conflict is surfaced.
func (s *ClaimService) Create(ctx context.Context, recipientID, gatheringID uint) (*models.Claim, error) {
	var claim models.Claim

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Gathering{}).
				Where("id = ? AND is_taken = ?", gatheringID, false).
				Update("is_taken", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Distinguish a missing gathering from a contested one.
				var g models.Gathering
				if err := tx.First(&g, gatheringID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrGatheringNotFound
					}
					return err
				}
				return ErrGatheringTaken
			}

			claim = models.Claim{
				RecipientID: recipientID,
				GatheringID: gatheringID,
				ClaimTime:   time.Now(),
				Status:      models.StatusClaimed,
			}
			return tx.Create(&claim).Error
		})
		if isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrGatheringNotFound) || errors.Is(err, ErrGatheringTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create claim: %w", err)
	}
	return &claim, nil
}

// UpdateStatus transitions a claim to the requested status on behalf of the
// actor. Moving into "cancelled" from any other status releases the
// gathering; that reset and the status write commit together.
func (s *ClaimService) UpdateStatus(ctx context.Context, actor *models.User, claimID uint, status models.ClaimStatus) (*models.Claim, error) {
	if err := statemachine.ValidStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	var claim models.Claim
	if err := s.db.WithContext(ctx).First(&claim, claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("get claim: %w", err)
	}

	var gathering models.Gathering
	if err := s.db.WithContext(ctx).First(&gathering, claim.GatheringID).Error; err != nil {
		return nil, fmt.Errorf("get claimed gathering: %w", err)
	}

	if !CanModifyClaim(actor, &claim, &gathering) {
		return nil, ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if statemachine.Reopens(claim.Status, status) {
			res := tx.Model(&models.Gathering{}).
				Where("id = ?", claim.GatheringID).
				Update("is_taken", false)
			if res.Error != nil {
				return res.Error
			}
		}
		return tx.Model(&claim).Update("status", status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update claim status: %w", err)
	}

	claim.Status = status
	return &claim, nil
}

// ListByRecipient returns all of a recipient's claims, newest first.
func (s *ClaimService) ListByRecipient(ctx context.Context, recipientID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("claim_time desc").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list recipient claims: %w", err)
	}
	return claims, nil
}

// ListForDonor returns all claims made against the donor's gatherings.
func (s *ClaimService) ListForDonor(ctx context.Context, donorID uint) ([]models.Claim, error) {
	var gatheringIDs []uint
	err := s.db.WithContext(ctx).Model(&models.Gathering{}).
		Where("donor_id = ?", donorID).
		Pluck("id", &gatheringIDs).Error
	if err != nil {
		return nil, fmt.Errorf("list donor gatherings: %w", err)
	}
	if len(gatheringIDs) == 0 {
		return []models.Claim{}, nil
	}

	var claims []models.Claim
	err = s.db.WithContext(ctx).
		Where("gathering_id IN ?", gatheringIDs).
		Order("claim_time desc").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list claims for gatherings: %w", err)
	}
	return claims, nil
}

// isBusy matches SQLite's transient write-contention errors.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
