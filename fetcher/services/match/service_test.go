package matchservice

import (
	"context"
	"errors"
	"testing"
	"time"

	matchfetcher "nexusiq/fetcher/data/match"
	"nexusiq/fetcher/repositories"
	"nexusiq/fetcher/requests"
	playerservice "nexusiq/fetcher/services/player"
	"nexusiq/internal/testutil"
	"nexusiq/pkg/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(db *gorm.DB, matchRepo repositories.MatchRepository) *MatchService {
	players := playerservice.NewPlayerService(repositories.NewPlayerRepository(db))
	return NewMatchService(db, matchRepo, players, nil)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(model).Count(&total).Error)
	return total
}

// Fails every rune insert, after the match and some participants were written.
type failingRunesRepo struct {
	repositories.MatchRepository
}

func (f failingRunesRepo) WithTx(tx *gorm.DB) repositories.MatchRepository {
	return failingRunesRepo{f.MatchRepository.WithTx(tx)}
}

func (f failingRunesRepo) CreateParticipantRunes(ctx context.Context, runes *models.MatchParticipantRunes) error {
	return errors.New("disk full")
}

// Never finds a stored match, like a concurrent writer racing the check.
type blindRepo struct {
	repositories.MatchRepository
}

func (b blindRepo) WithTx(tx *gorm.DB) repositories.MatchRepository {
	return blindRepo{b.MatchRepository.WithTx(tx)}
}

func (b blindRepo) GetMatchByMatchId(ctx context.Context, matchId string) (*models.MatchInfo, error) {
	return nil, nil
}

// Rejects every team insert as a duplicate.
type duplicateTeamRepo struct {
	repositories.MatchRepository
}

func (d duplicateTeamRepo) WithTx(tx *gorm.DB) repositories.MatchRepository {
	return duplicateTeamRepo{d.MatchRepository.WithTx(tx)}
}

func (d duplicateTeamRepo) CreateMatchTeam(ctx context.Context, team *models.MatchTeam) error {
	return gorm.ErrDuplicatedKey
}

func TestIngestMatchIdempotence(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))
	ctx := context.Background()
	payload := testutil.NewMatch("EUW1_7000000001", 1)

	result, err := service.IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)

	result, err = service.IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestSkipped, result)

	assert.Equal(t, int64(1), count(t, db, &models.MatchInfo{}))
	assert.Equal(t, int64(2), count(t, db, &models.MatchTeam{}))
	assert.Equal(t, int64(3), count(t, db, &models.MatchBan{}))
	assert.Equal(t, int64(14), count(t, db, &models.MatchObjective{}))
	assert.Equal(t, int64(10), count(t, db, &models.MatchParticipant{}))
	assert.Equal(t, int64(10), count(t, db, &models.MatchParticipantRunes{}))
	assert.Equal(t, int64(10), count(t, db, &models.PlayerInfo{}))
}

func TestIngestMatchStoresNestedData(t *testing.T) {
	db := testutil.NewTestConnection(t)
	repo := repositories.NewMatchRepository(db)
	service := newService(db, repo)
	ctx := context.Background()

	_, err := service.IngestMatch(ctx, testutil.NewMatch("EUW1_7000000002", 1))
	require.NoError(t, err)

	match, err := repo.GetMatchByMatchId(ctx, "EUW1_7000000002")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 420, match.QueueId)
	assert.Equal(t, 31*60, match.GameDuration)

	var dragon models.MatchObjective
	require.NoError(t, db.
		Joins("JOIN match_teams ON match_teams.id = match_objectives.match_team_id").
		Where("match_teams.team_id = ? AND match_objectives.category = ?", 100, matchfetcher.ObjectiveDragon).
		First(&dragon).Error)
	assert.True(t, dragon.First)
	assert.Equal(t, 3, dragon.Kills)

	var player models.PlayerInfo
	require.NoError(t, db.Where("puuid = ?", testutil.Puuid(3)).First(&player).Error)
	assert.True(t, player.IsStub)
	assert.Equal(t, "euw1", player.Region)

}

func TestGetPlayerMatches(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))
	ctx := context.Background()

	older := testutil.NewMatch("EUW1_7000000020", 1)
	newer := testutil.NewMatch("EUW1_7000000021", 1)
	newer.Info.GameStartTimestamp = matchfetcher.RiotTime(older.Info.GameStartTimestamp.Time().Add(time.Hour))
	other := testutil.NewMatch("EUW1_7000000022", 20)

	for _, payload := range []*matchfetcher.Match{older, newer, other} {
		_, err := service.IngestMatch(ctx, payload)
		require.NoError(t, err)
	}

	matches, err := service.GetPlayerMatches(ctx, testutil.Puuid(3), 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "EUW1_7000000021", matches[0].MatchId)
	assert.Equal(t, "EUW1_7000000020", matches[1].MatchId)

	matches, err = service.GetPlayerMatches(ctx, testutil.Puuid(3), 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "EUW1_7000000021", matches[0].MatchId)

	matches, err = service.GetPlayerMatches(ctx, testutil.Puuid(99), 10)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = service.GetPlayerMatches(ctx, "short", 10)
	var validationErr *requests.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestIngestMatchKeepsExistingPlayers(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))
	ctx := context.Background()

	require.NoError(t, db.Create(&models.PlayerInfo{
		Puuid:          testutil.Puuid(1),
		RiotIdGameName: "Synced",
		RiotIdTagline:  "EUW",
		SummonerLevel:  900,
	}).Error)

	result, err := service.IngestMatch(ctx, testutil.NewMatch("EUW1_7000000003", 1))
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)

	var player models.PlayerInfo
	require.NoError(t, db.Where("puuid = ?", testutil.Puuid(1)).First(&player).Error)
	assert.False(t, player.IsStub)
	assert.Equal(t, 900, player.SummonerLevel)
	assert.Equal(t, int64(10), count(t, db, &models.PlayerInfo{}))
}

func TestIngestMatchRollback(t *testing.T) {
	db := testutil.NewTestConnection(t)
	ctx := context.Background()
	payload := testutil.NewMatch("EUW1_7000000004", 1)

	result, err := newService(db, failingRunesRepo{repositories.NewMatchRepository(db)}).IngestMatch(ctx, payload)
	require.Error(t, err)
	assert.Equal(t, IngestFailed, result)

	// Nothing from the failed attempt is visible.
	assert.Equal(t, int64(0), count(t, db, &models.MatchInfo{}))
	assert.Equal(t, int64(0), count(t, db, &models.MatchTeam{}))
	assert.Equal(t, int64(0), count(t, db, &models.MatchParticipant{}))
	assert.Equal(t, int64(0), count(t, db, &models.PlayerInfo{}))

	// So the match is ingested on the next attempt.
	result, err = newService(db, repositories.NewMatchRepository(db)).IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)
}

func TestIngestMatchConcurrentWriter(t *testing.T) {
	db := testutil.NewTestConnection(t)
	ctx := context.Background()
	payload := testutil.NewMatch("EUW1_7000000005", 1)

	_, err := newService(db, repositories.NewMatchRepository(db)).IngestMatch(ctx, payload)
	require.NoError(t, err)

	// The unique match id rejects the second writer.
	result, err := newService(db, blindRepo{repositories.NewMatchRepository(db)}).IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestSkipped, result)
	assert.Equal(t, int64(1), count(t, db, &models.MatchInfo{}))
}

func TestIngestMatchOtherDuplicateFails(t *testing.T) {
	db := testutil.NewTestConnection(t)
	ctx := context.Background()
	payload := testutil.NewMatch("EUW1_7000000010", 1)

	result, err := newService(db, duplicateTeamRepo{repositories.NewMatchRepository(db)}).IngestMatch(ctx, payload)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, IngestFailed, result)
	assert.Equal(t, int64(0), count(t, db, &models.MatchInfo{}))

	// The match was never stored, so a later attempt ingests it.
	result, err = newService(db, repositories.NewMatchRepository(db)).IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)
}

func TestIngestMatchWithBots(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))
	ctx := context.Background()

	payload := testutil.NewMatch("EUW1_7000000011", 1)
	payload.Info.QueueId = 850
	for i := 5; i < 10; i++ {
		payload.Info.Participants[i].Puuid = "BOT"
	}

	result, err := service.IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)

	result, err = service.IngestMatch(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, IngestSkipped, result)

	assert.Equal(t, int64(1), count(t, db, &models.MatchInfo{}))
	assert.Equal(t, int64(10), count(t, db, &models.MatchParticipant{}))
	assert.Equal(t, int64(5), count(t, db, &models.PlayerInfo{}))

	var bots int64
	require.NoError(t, db.Model(&models.MatchParticipant{}).Where("player_id IS NULL").Count(&bots).Error)
	assert.Equal(t, int64(5), bots)
}

func TestIngestMatchInvalidPayload(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))

	tests := []struct {
		name    string
		payload *matchfetcher.Match
	}{
		{name: "nil payload"},
		{name: "missing match id", payload: &matchfetcher.Match{}},
		{
			name: "participant without team",
			payload: func() *matchfetcher.Match {
				match := testutil.NewMatch("EUW1_7000000006", 1)
				match.Info.Participants[0].TeamId = 300
				return match
			}(),
		},
		{
			name: "team listed twice",
			payload: func() *matchfetcher.Match {
				match := testutil.NewMatch("EUW1_7000000012", 1)
				match.Info.Teams[1].TeamId = 100
				for i := range match.Info.Participants {
					match.Info.Participants[i].TeamId = 100
				}
				return match
			}(),
		},
		{
			name: "player listed twice",
			payload: func() *matchfetcher.Match {
				match := testutil.NewMatch("EUW1_7000000013", 1)
				match.Info.Participants[9].Puuid = match.Info.Participants[0].Puuid
				return match
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.IngestMatch(context.Background(), tt.payload)
			assert.Error(t, err)
			assert.Equal(t, IngestFailed, result)
		})
	}
}

func TestIngestMatches(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))

	first := testutil.NewMatch("EUW1_7000000007", 1)
	counts := service.IngestMatches(context.Background(), []*matchfetcher.Match{
		first,
		testutil.NewMatch("EUW1_7000000008", 5),
		first,
		{},
	})

	assert.Equal(t, Counts{Processed: 2, Skipped: 1, Errors: 1}, counts)
	assert.Equal(t, int64(14), count(t, db, &models.PlayerInfo{}))
}

func TestExtractRunes(t *testing.T) {
	style := func(id int, perks ...int) matchfetcher.PerkStyle {
		selections := make([]matchfetcher.PerkSelection, 0, len(perks))
		for _, perk := range perks {
			selections = append(selections, matchfetcher.PerkSelection{Perk: perk})
		}
		return matchfetcher.PerkStyle{Style: id, Selections: selections}
	}

	tests := []struct {
		name     string
		perks    *matchfetcher.Perks
		ok       bool
		expected *models.MatchParticipantRunes
	}{
		{name: "no perks"},
		{
			name:  "single style",
			perks: &matchfetcher.Perks{Styles: []matchfetcher.PerkStyle{style(8100, 8112)}},
		},
		{
			name:  "same style twice",
			perks: &matchfetcher.Perks{Styles: []matchfetcher.PerkStyle{style(8100, 8112), style(8100, 8139)}},
		},
		{
			name: "two distinct styles",
			perks: &matchfetcher.Perks{
				StatPerks: matchfetcher.StatPerks{Defense: 5001, Flex: 5008, Offense: 5005},
				Styles: []matchfetcher.PerkStyle{
					style(8100, 8112, 8139, 8138, 8135),
					style(8300, 8345, 8347),
				},
			},
			ok: true,
			expected: &models.MatchParticipantRunes{
				PrimaryStyle: 8100, PrimaryPerk0: 8112, PrimaryPerk1: 8139, PrimaryPerk2: 8138, PrimaryPerk3: 8135,
				SecondaryStyle: 8300, SecondaryPerk0: 8345, SecondaryPerk1: 8347,
				StatPerkDefense: 5001, StatPerkFlex: 5008, StatPerkOffense: 5005,
			},
		},
		{
			name: "missing selections are zero",
			perks: &matchfetcher.Perks{
				Styles: []matchfetcher.PerkStyle{style(8000, 8005), style(8400)},
			},
			ok: true,
			expected: &models.MatchParticipantRunes{
				PrimaryStyle: 8000, PrimaryPerk0: 8005,
				SecondaryStyle: 8400,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runes, ok := ExtractRunes(tt.perks)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, runes)
		})
	}
}

func TestIngestMatchSkipsUnusableRunes(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := newService(db, repositories.NewMatchRepository(db))

	payload := testutil.NewMatch("EUW1_7000000009", 1)
	payload.Info.Participants[0].Perks.Styles = payload.Info.Participants[0].Perks.Styles[:1]
	payload.Info.Participants[1].Perks.Styles[1].Style = payload.Info.Participants[1].Perks.Styles[0].Style
	payload.Info.Participants[2].Perks = nil

	result, err := service.IngestMatch(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, IngestIngested, result)
	assert.Equal(t, int64(10), count(t, db, &models.MatchParticipant{}))
	assert.Equal(t, int64(7), count(t, db, &models.MatchParticipantRunes{}))
}
