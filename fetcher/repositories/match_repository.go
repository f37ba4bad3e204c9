package repositories

import (
	"context"
	"errors"
	"fmt"

	"nexusiq/pkg/database/models"

	"gorm.io/gorm"
)

// MatchRepository is the public interface for accessing the match data.
type MatchRepository interface {
	WithTx(tx *gorm.DB) MatchRepository
	CreateMatchBans(ctx context.Context, bans []*models.MatchBan) error
	CreateMatchInfo(ctx context.Context, match *models.MatchInfo) error
	CreateMatchObjectives(ctx context.Context, objectives []*models.MatchObjective) error
	CreateMatchParticipant(ctx context.Context, participant *models.MatchParticipant) error
	CreateMatchTeam(ctx context.Context, team *models.MatchTeam) error
	CreateParticipantRunes(ctx context.Context, runes *models.MatchParticipantRunes) error
	GetMatchByMatchId(ctx context.Context, matchId string) (*models.MatchInfo, error)
	GetMatchesByPuuid(ctx context.Context, puuid string, limit int) ([]models.MatchInfo, error)
}

// matchRepository repository structure.
type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a match repository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (mr *matchRepository) WithTx(tx *gorm.DB) MatchRepository {
	return &matchRepository{db: tx}
}

// CreateMatchBans creates the bans of a team.
func (mr *matchRepository) CreateMatchBans(ctx context.Context, bans []*models.MatchBan) error {
	if len(bans) == 0 {
		return nil
	}
	return mr.db.WithContext(ctx).Create(&bans).Error
}

// CreateMatchInfo creates the match.
// A existing match id fails with gorm.ErrDuplicatedKey.
func (mr *matchRepository) CreateMatchInfo(ctx context.Context, match *models.MatchInfo) error {
	return mr.db.WithContext(ctx).Create(match).Error
}

// CreateMatchObjectives creates the objectives of a team.
func (mr *matchRepository) CreateMatchObjectives(ctx context.Context, objectives []*models.MatchObjective) error {
	if len(objectives) == 0 {
		return nil
	}
	return mr.db.WithContext(ctx).Create(&objectives).Error
}

// CreateMatchParticipant creates a single participant.
func (mr *matchRepository) CreateMatchParticipant(ctx context.Context, participant *models.MatchParticipant) error {
	return mr.db.WithContext(ctx).Create(participant).Error
}

// CreateMatchTeam creates a team.
func (mr *matchRepository) CreateMatchTeam(ctx context.Context, team *models.MatchTeam) error {
	return mr.db.WithContext(ctx).Create(team).Error
}

// CreateParticipantRunes creates the rune page of a participant.
func (mr *matchRepository) CreateParticipantRunes(ctx context.Context, runes *models.MatchParticipantRunes) error {
	return mr.db.WithContext(ctx).Create(runes).Error
}

// GetMatchByMatchId returns the match with the given riot match id.
func (mr *matchRepository) GetMatchByMatchId(ctx context.Context, matchId string) (*models.MatchInfo, error) {
	var match models.MatchInfo
	if err := mr.db.WithContext(ctx).Where("match_id = ?", matchId).First(&match).Error; err != nil {
		// If the record was not found, doesn't need to return a error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("couldn't get the match %s: %w", matchId, err)
	}

	return &match, nil
}

// GetMatchesByPuuid returns the most recent stored matches of a player.
func (mr *matchRepository) GetMatchesByPuuid(ctx context.Context, puuid string, limit int) ([]models.MatchInfo, error) {
	var matches []models.MatchInfo
	if err := mr.db.WithContext(ctx).
		Joins("JOIN match_participants mp ON mp.match_id = match_infos.id").
		Where("mp.puuid = ?", puuid).
		Order("match_infos.game_start DESC").
		Limit(limit).
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("couldn't get the matches of the player: %w", err)
	}

	return matches, nil
}
