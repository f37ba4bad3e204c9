package playerservice

import (
	"context"
	"testing"
	"time"

	"nexusiq/fetcher/repositories"
	"nexusiq/internal/testutil"
	"nexusiq/pkg/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMinimalProfile(t *testing.T) {
	tests := []struct {
		name     string
		existing *models.PlayerInfo
		check    func(t *testing.T, player *models.PlayerInfo)
	}{
		{
			name: "creates a stub for a unknown player",
			check: func(t *testing.T, player *models.PlayerInfo) {
				assert.True(t, player.IsStub)
				assert.True(t, player.LastSyncedAt.IsZero())
				assert.Equal(t, "Player1", player.RiotIdGameName)
				assert.Equal(t, "euw1", player.Region)
				assert.Equal(t, 101, player.SummonerLevel)
			},
		},
		{
			name: "keeps a synced player untouched",
			existing: &models.PlayerInfo{
				Puuid:          testutil.Puuid(1),
				RiotIdGameName: "Synced",
				RiotIdTagline:  "KR1",
				SummonerLevel:  500,
				LastSyncedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			check: func(t *testing.T, player *models.PlayerInfo) {
				assert.False(t, player.IsStub)
				assert.Equal(t, "Synced", player.RiotIdGameName)
				assert.Equal(t, 500, player.SummonerLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestConnection(t)
			repo := repositories.NewPlayerRepository(db)
			service := NewPlayerService(repo)
			ctx := context.Background()

			if tt.existing != nil {
				require.NoError(t, db.Create(tt.existing).Error)
			}

			player, err := service.EnsureMinimalProfile(ctx, nil, testutil.NewParticipant(1, 100), "euw1")
			require.NoError(t, err)
			require.NotNil(t, player)
			assert.NotZero(t, player.ID)
			tt.check(t, player)

			// Calling it again doesn't create a second row.
			again, err := service.EnsureMinimalProfile(ctx, nil, testutil.NewParticipant(1, 100), "euw1")
			require.NoError(t, err)
			assert.Equal(t, player.ID, again.ID)

			var count int64
			require.NoError(t, db.Model(&models.PlayerInfo{}).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestEnsureMinimalProfileSkipsBots(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := NewPlayerService(repositories.NewPlayerRepository(db))

	bot := testutil.NewParticipant(1, 100)
	bot.Puuid = "BOT"

	player, err := service.EnsureMinimalProfile(context.Background(), nil, bot, "euw1")
	require.NoError(t, err)
	assert.Nil(t, player)

	var count int64
	require.NoError(t, db.Model(&models.PlayerInfo{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSaveSyncedProfilePromotesStub(t *testing.T) {
	db := testutil.NewTestConnection(t)
	service := NewPlayerService(repositories.NewPlayerRepository(db))
	ctx := context.Background()

	stub, err := service.EnsureMinimalProfile(ctx, nil, testutil.NewParticipant(2, 200), "euw1")
	require.NoError(t, err)
	require.True(t, stub.IsStub)

	syncedAt := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	saved, err := service.SaveSyncedProfile(ctx, nil, &models.PlayerInfo{
		Puuid:          testutil.Puuid(2),
		RiotIdGameName: "Renamed",
		RiotIdTagline:  "EUW",
		Region:         "euw1",
		SummonerLevel:  321,
	}, syncedAt)
	require.NoError(t, err)

	assert.Equal(t, stub.ID, saved.ID)
	assert.False(t, saved.IsStub)
	assert.Equal(t, "Renamed", saved.RiotIdGameName)
	assert.True(t, syncedAt.Equal(saved.LastSyncedAt.UTC()))

	cached, err := service.GetByNameTag(ctx, "renamed", "EUW")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, saved.ID, cached.ID)
}
