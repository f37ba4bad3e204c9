package repositories

import (
	"context"
	"fmt"

	"nexusiq/pkg/database/models"

	"gorm.io/gorm"
)

// RatingRepository is the public interface for handling rating changes.
type RatingRepository interface {
	WithTx(tx *gorm.DB) RatingRepository
	CreateRatings(ctx context.Context, entries []models.RatingEntry) error
	DeleteRatings(ctx context.Context, ids []uint) error
	GetRatingsByPlayerId(ctx context.Context, playerId uint) ([]models.RatingEntry, error)
	UpdateRatings(ctx context.Context, entries []models.RatingEntry) error
}

// ratingRepository is the repository instance.
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new repository and return it.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (rs *ratingRepository) WithTx(tx *gorm.DB) RatingRepository {
	return &ratingRepository{db: tx}
}

// CreateRatings creates multiple rating entries at a time.
func (rs *ratingRepository) CreateRatings(ctx context.Context, entries []models.RatingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return rs.db.WithContext(ctx).Create(&entries).Error
}

// DeleteRatings removes the retired entries.
func (rs *ratingRepository) DeleteRatings(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	return rs.db.WithContext(ctx).Where("id IN (?)", ids).Delete(&models.RatingEntry{}).Error
}

// GetRatingsByPlayerId returns every current entry of the player.
func (rs *ratingRepository) GetRatingsByPlayerId(ctx context.Context, playerId uint) ([]models.RatingEntry, error) {
	var ratings []models.RatingEntry
	if err := rs.db.WithContext(ctx).
		Where("player_id = ?", playerId).
		Order("id ASC").
		Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("couldn't get the ratings of player %d: %w", playerId, err)
	}

	return ratings, nil
}

// UpdateRatings overwrites the standing of existing entries.
func (rs *ratingRepository) UpdateRatings(ctx context.Context, entries []models.RatingEntry) error {
	for i := range entries {
		if err := rs.db.WithContext(ctx).Save(&entries[i]).Error; err != nil {
			return fmt.Errorf("couldn't update rating %d: %w", entries[i].ID, err)
		}
	}
	return nil
}
