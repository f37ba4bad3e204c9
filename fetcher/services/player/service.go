package playerservice

import (
	"context"
	"fmt"
	"time"

	matchfetcher "nexusiq/fetcher/data/match"
	"nexusiq/fetcher/repositories"
	"nexusiq/pkg/database/models"

	"gorm.io/gorm"
)

// PlayerService handles the player profiles stored in the cache.
type PlayerService struct {
	repository repositories.PlayerRepository
}

// NewPlayerService creates a new player service.
func NewPlayerService(repository repositories.PlayerRepository) *PlayerService {
	return &PlayerService{repository: repository}
}

// Bind the repository to the transaction, if any.
func (p *PlayerService) repo(tx *gorm.DB) repositories.PlayerRepository {
	if tx == nil {
		return p.repository
	}
	return p.repository.WithTx(tx)
}

// EnsureMinimalProfile makes sure a profile exists for the match participant.
// A missing player is created as a stub from the participant data, never synced and without any upstream call.
// A existing player is returned untouched.
// Bots have no profile, nil is returned for them.
func (p *PlayerService) EnsureMinimalProfile(
	ctx context.Context,
	tx *gorm.DB,
	participant matchfetcher.MatchPlayer,
	platform string,
) (*models.PlayerInfo, error) {
	if !participant.IsPlayer() {
		return nil, nil
	}

	repo := p.repo(tx)

	stub := &models.PlayerInfo{
		Puuid:          participant.Puuid,
		RiotIdGameName: participant.RiotIdGameName,
		RiotIdTagline:  participant.RiotIdTagline,
		Region:         platform,
		ProfileIcon:    participant.ProfileIcon,
		SummonerLevel:  participant.SummonerLevel,
		IsStub:         true,
	}

	if err := repo.CreatePlayerIfMissing(ctx, stub); err != nil {
		return nil, fmt.Errorf("couldn't create the stub of player %s: %w", participant.Puuid, err)
	}

	// Read back, the insert may have been skipped.
	player, err := repo.GetPlayerByPuuid(ctx, participant.Puuid)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("player %s missing after the stub insert", participant.Puuid)
	}

	return player, nil
}

// SaveSyncedProfile stores a fully fetched profile, promoting any stub.
func (p *PlayerService) SaveSyncedProfile(ctx context.Context, tx *gorm.DB, player *models.PlayerInfo, syncedAt time.Time) (*models.PlayerInfo, error) {
	player.LastSyncedAt = syncedAt
	player.IsStub = false
	return p.repo(tx).UpsertPlayer(ctx, player)
}

// GetByNameTag returns the cached player, nil if not cached.
func (p *PlayerService) GetByNameTag(ctx context.Context, gameName string, tagLine string) (*models.PlayerInfo, error) {
	return p.repository.GetPlayerByNameTag(ctx, gameName, tagLine)
}

// GetByPuuid returns the cached player, nil if not cached.
func (p *PlayerService) GetByPuuid(ctx context.Context, puuid string) (*models.PlayerInfo, error) {
	return p.repository.GetPlayerByPuuid(ctx, puuid)
}
