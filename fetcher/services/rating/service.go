package ratingservice

import (
	"context"
	"fmt"

	leaguefetcher "nexusiq/fetcher/data/league"
	"nexusiq/fetcher/repositories"
	"nexusiq/pkg/database/models"
	tiervalues "nexusiq/pkg/riotvalues/tier"

	"gorm.io/gorm"
)

// RatingService handles all rating-related operations.
type RatingService struct {
	repository repositories.RatingRepository
}

// NewRatingService creates a new rating service.
func NewRatingService(repository repositories.RatingRepository) *RatingService {
	return &RatingService{
		repository: repository,
	}
}

// createRatingFromEntry creates a rating entry from a league entry.
func createRatingFromEntry(playerId uint, entry leaguefetcher.LeagueEntry) models.RatingEntry {
	rank := entry.Rank
	if rank == "" && tiervalues.IsHighElo(entry.Tier) {
		// High elo has no division, just set the ranking as I.
		rank = "I"
	}

	return models.RatingEntry{
		PlayerId:     playerId,
		Queue:        entry.QueueType,
		LeagueId:     entry.LeagueId,
		Tier:         entry.Tier,
		Rank:         rank,
		NumericScore: tiervalues.CalculateRank(entry.Tier, rank, entry.LeaguePoints),
		LeaguePoints: entry.LeaguePoints,
		Wins:         entry.Wins,
		Losses:       entry.Losses,
		Veteran:      entry.Veteran,
		Inactive:     entry.Inactive,
		FreshBlood:   entry.FreshBlood,
		HotStreak:    entry.HotStreak,
	}
}

// EntriesFromLeague converts the fetched league entries of a player.
func EntriesFromLeague(playerId uint, entries []leaguefetcher.LeagueEntry) []models.RatingEntry {
	ratings := make([]models.RatingEntry, 0, len(entries))
	for _, entry := range entries {
		ratings = append(ratings, createRatingFromEntry(playerId, entry))
	}
	return ratings
}

// SyncPlayerRatings merges the fetched entries into the stored ones of the player.
// The tx must be the transaction of the whole refresh, nothing is committed here.
func (s *RatingService) SyncPlayerRatings(
	ctx context.Context,
	tx *gorm.DB,
	playerId uint,
	fetched []leaguefetcher.LeagueEntry,
) (*Plan, error) {
	repo := s.repository
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	existing, err := repo.GetRatingsByPlayerId(ctx, playerId)
	if err != nil {
		return nil, err
	}

	plan := Reconcile(existing, EntriesFromLeague(playerId, fetched))

	// Retire first, a queue that changed league would collide with it's old entry.
	if err := repo.DeleteRatings(ctx, plan.RetiredIds()); err != nil {
		return nil, fmt.Errorf("couldn't retire the ratings: %w", err)
	}

	if err := repo.UpdateRatings(ctx, plan.Update); err != nil {
		return nil, fmt.Errorf("couldn't update the ratings: %w", err)
	}

	if err := repo.CreateRatings(ctx, plan.Create); err != nil {
		return nil, fmt.Errorf("couldn't create the ratings: %w", err)
	}

	return &plan, nil
}

// GetPlayerRatings returns the stored entries of the player.
func (s *RatingService) GetPlayerRatings(ctx context.Context, playerId uint) ([]models.RatingEntry, error) {
	return s.repository.GetRatingsByPlayerId(ctx, playerId)
}
