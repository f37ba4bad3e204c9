package repositories

import (
	"context"
	"errors"
	"fmt"

	"nexusiq/pkg/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository defines the public interface for handling player related data.
type PlayerRepository interface {
	WithTx(tx *gorm.DB) PlayerRepository
	CreatePlayerIfMissing(ctx context.Context, player *models.PlayerInfo) error
	GetPlayerByNameTag(ctx context.Context, gameName string, tagLine string) (*models.PlayerInfo, error)
	GetPlayerByPuuid(ctx context.Context, puuid string) (*models.PlayerInfo, error)
	UpsertPlayer(ctx context.Context, player *models.PlayerInfo) (*models.PlayerInfo, error)
}

// playerRepository is the repository instance.
type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates and return the player repository.
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (ps *playerRepository) WithTx(tx *gorm.DB) PlayerRepository {
	return &playerRepository{db: tx}
}

// CreatePlayerIfMissing inserts the player, doing nothing if the puuid already exists.
func (ps *playerRepository) CreatePlayerIfMissing(ctx context.Context, player *models.PlayerInfo) error {
	return ps.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "puuid"}},
			DoNothing: true,
		}).
		Create(player).Error
}

// GetPlayerByNameTag returns a given player by his game name and tag.
// The comparison ignores casing, like the riot id itself.
func (ps *playerRepository) GetPlayerByNameTag(ctx context.Context, gameName string, tagLine string) (*models.PlayerInfo, error) {
	var player models.PlayerInfo
	if err := ps.db.WithContext(ctx).
		Where("LOWER(riot_id_game_name) = LOWER(?) AND LOWER(riot_id_tagline) = LOWER(?)", gameName, tagLine).
		Order("last_synced_at DESC").
		First(&player).Error; err != nil {

		// If the record was not found, doesn't need to return a error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		// Other database error.
		return nil, fmt.Errorf("couldn't get the player %s#%s: %w", gameName, tagLine, err)
	}

	return &player, nil
}

// GetPlayerByPuuid returns a given player by his PUUID.
func (ps *playerRepository) GetPlayerByPuuid(ctx context.Context, puuid string) (*models.PlayerInfo, error) {
	var player models.PlayerInfo
	if err := ps.db.WithContext(ctx).Where("puuid = ?", puuid).First(&player).Error; err != nil {
		// If the record was not found, doesn't need to return a error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		// Other database error.
		return nil, fmt.Errorf("couldn't get the player by puuid: %w", err)
	}

	return &player, nil
}

// UpsertPlayer creates the player or overwrites the synced fields of the existing one.
// A stub is promoted to a full profile.
func (ps *playerRepository) UpsertPlayer(ctx context.Context, player *models.PlayerInfo) (*models.PlayerInfo, error) {
	err := ps.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "puuid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"riot_id_game_name",
				"riot_id_tagline",
				"region",
				"profile_icon",
				"summoner_level",
				"revision_date",
				"last_synced_at",
				"is_stub",
				"updated_at",
			}),
		}).
		Create(player).Error
	if err != nil {
		return nil, fmt.Errorf("couldn't upsert the player: %w", err)
	}

	// Read back, the id is not returned on conflict by every driver.
	stored, err := ps.GetPlayerByPuuid(ctx, player.Puuid)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("player %s vanished after the upsert", player.Puuid)
	}

	return stored, nil
}
