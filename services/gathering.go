package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"food-donation-api/geo"
	"food-donation-api/models"

	"gorm.io/gorm"
)

// DefaultMaxDistanceKm is the nearby-search radius when the caller does not
// supply one.
const DefaultMaxDistanceKm = 10.0

// GatheringService owns gathering creation and the availability/proximity
// queries.
type GatheringService struct {
	db *gorm.DB
}

func NewGatheringService(db *gorm.DB) *GatheringService {
	return &GatheringService{db: db}
}

// CreateGatheringInput carries the donor-supplied fields for a new gathering.
type CreateGatheringInput struct {
	FoodDetails   string
	AvailableFrom time.Time
	AvailableTo   time.Time
	Latitude      float64
	Longitude     float64
}

// Create inserts a new untaken gathering owned by the donor.
func (s *GatheringService) Create(ctx context.Context, donorID uint, in CreateGatheringInput) (*models.Gathering, error) {
	if in.AvailableFrom.After(in.AvailableTo) {
		return nil, ErrInvalidWindow
	}

	gathering := models.Gathering{
		DonorID:       donorID,
		FoodDetails:   in.FoodDetails,
		AvailableFrom: in.AvailableFrom,
		AvailableTo:   in.AvailableTo,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		IsTaken:       false,
	}
	if err := s.db.WithContext(ctx).Create(&gathering).Error; err != nil {
		return nil, fmt.Errorf("insert gathering: %w", err)
	}
	return &gathering, nil
}

// availableQuery is the single availability predicate: untaken and inside
// the time window. Both listing operations share it.
func (s *GatheringService) availableQuery(ctx context.Context, now time.Time) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("is_taken = ? AND available_from <= ? AND available_to >= ?", false, now, now)
}

// ListAvailable returns currently available gatherings, paginated by
// offset/limit, in stable id order.
func (s *GatheringService) ListAvailable(ctx context.Context, now time.Time, skip, limit int) ([]models.Gathering, error) {
	var gatherings []models.Gathering
	err := s.availableQuery(ctx, now).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&gatherings).Error
	if err != nil {
		return nil, fmt.Errorf("list available gatherings: %w", err)
	}
	return gatherings, nil
}

// ListNearby returns available gatherings within maxDistanceKm of the origin,
// sorted ascending by distance. Ties keep retrieval (id) order. The scan is
// linear over the available set; no spatial index is kept.
func (s *GatheringService) ListNearby(ctx context.Context, latitude, longitude, maxDistanceKm float64, now time.Time) ([]models.Gathering, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}

	var candidates []models.Gathering
	if err := s.availableQuery(ctx, now).Order("id").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list nearby gatherings: %w", err)
	}

	nearby := make([]models.Gathering, 0, len(candidates))
	for _, g := range candidates {
		d := geo.Haversine(latitude, longitude, g.Latitude, g.Longitude)
		if d <= maxDistanceKm {
			g.DistanceKm = d
			nearby = append(nearby, g)
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// ListByDonor returns all gatherings owned by the donor, taken or not.
func (s *GatheringService) ListByDonor(ctx context.Context, donorID uint) ([]models.Gathering, error) {
	var gatherings []models.Gathering
	err := s.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("id").
		Find(&gatherings).Error
	if err != nil {
		return nil, fmt.Errorf("list donor gatherings: %w", err)
	}
	return gatherings, nil
}

// Get returns a single gathering, applying the view policy for the actor.
func (s *GatheringService) Get(ctx context.Context, actor *models.User, id uint) (*models.Gathering, error) {
	var gathering models.Gathering
	if err := s.db.WithContext(ctx).First(&gathering, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatheringNotFound
		}
		return nil, fmt.Errorf("get gathering: %w", err)
	}

	actorHasClaim := false
	if actor.Role == models.RoleRecipient && gathering.IsTaken {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Claim{}).
			Where("gathering_id = ? AND recipient_id = ?", gathering.ID, actor.ID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("check claim ownership: %w", err)
		}
		actorHasClaim = count > 0
	}

	if !CanViewGathering(actor, &gathering, actorHasClaim) {
		return nil, ErrForbidden
	}
	return &gathering, nil
}
