package matchservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	matchfetcher "nexusiq/fetcher/data/match"
	"nexusiq/fetcher/repositories"
	"nexusiq/fetcher/requests"
	playerservice "nexusiq/fetcher/services/player"
	"nexusiq/pkg/database/models"
	"nexusiq/pkg/logger"
	queuevalues "nexusiq/pkg/riotvalues/queue"

	"gorm.io/gorm"
)

// IngestResult is the terminal state of a match ingestion.
type IngestResult int

const (
	IngestFailed IngestResult = iota
	IngestSkipped
	IngestIngested
)

func (r IngestResult) String() string {
	switch r {
	case IngestSkipped:
		return "skipped"
	case IngestIngested:
		return "ingested"
	default:
		return "failed"
	}
}

var (
	// errAlreadyIngested stops the transaction when the match is already stored.
	errAlreadyIngested = errors.New("match already ingested")
	// errMatchExists is a match id conflict on insert, another writer stored it first.
	errMatchExists = errors.New("match inserted concurrently")
)

// Counts aggregates the results of a batch ingestion.
type Counts struct {
	Processed int
	Skipped   int
	Errors    int
}

// MatchService handles the ingestion of matches.
type MatchService struct {
	db              *gorm.DB
	MatchRepository repositories.MatchRepository
	playerService   *playerservice.PlayerService
	logger          *logger.Logger
}

// NewMatchService creates a new match service.
func NewMatchService(
	db *gorm.DB,
	matchRepo repositories.MatchRepository,
	playerService *playerservice.PlayerService,
	log *logger.Logger,
) *MatchService {
	if log == nil {
		log = logger.Nop()
	}
	return &MatchService{
		db:              db,
		MatchRepository: matchRepo,
		playerService:   playerService,
		logger:          log,
	}
}

// IngestMatch stores the match and everything under it exactly once per match id.
// All the writes share one transaction, a failure leaves nothing behind and the match can be ingested again.
func (m *MatchService) IngestMatch(ctx context.Context, payload *matchfetcher.Match) (IngestResult, error) {
	if payload == nil {
		return IngestFailed, errors.New("nil match payload")
	}
	if err := payload.Validate(); err != nil {
		return IngestFailed, fmt.Errorf("invalid match payload: %w", err)
	}

	matchId := payload.Metadata.MatchId

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := m.MatchRepository.WithTx(tx)

		existing, err := repo.GetMatchByMatchId(ctx, matchId)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyIngested
		}

		matchInfo, err := m.processMatchInfo(ctx, repo, payload)
		if err != nil {
			return err
		}

		teamIds, err := m.processTeams(ctx, repo, payload.Info.Teams, matchInfo)
		if err != nil {
			return fmt.Errorf("couldn't create the teams for the match %s: %w", matchId, err)
		}

		if err := m.processParticipants(ctx, tx, repo, payload, matchInfo, teamIds); err != nil {
			return fmt.Errorf("couldn't create the participants for the match %s: %w", matchId, err)
		}

		return nil
	})

	switch {
	case err == nil:
		m.logger.Debugf("Ingested match %s (%s)", matchId, queuevalues.QueueName(payload.Info.QueueId))
		return IngestIngested, nil
	case errors.Is(err, errAlreadyIngested):
		return IngestSkipped, nil
	case errors.Is(err, errMatchExists):
		m.logger.Debugf("Match %s ingested concurrently, skipping", matchId)
		return IngestSkipped, nil
	default:
		return IngestFailed, err
	}
}

// IngestMatches ingests every payload, a failed match doesn't stop the others.
func (m *MatchService) IngestMatches(ctx context.Context, payloads []*matchfetcher.Match) Counts {
	var counts Counts
	for _, payload := range payloads {
		result, err := m.IngestMatch(ctx, payload)
		switch result {
		case IngestIngested:
			counts.Processed++
		case IngestSkipped:
			counts.Skipped++
		default:
			counts.Errors++
			m.logger.Errorf("Couldn't ingest the match: %v", err)
		}
	}
	return counts
}

// GetPlayerMatches returns the stored matches of a player, most recent first.
// The count defaults to 20 and is capped to 100 like the upstream listing.
func (m *MatchService) GetPlayerMatches(ctx context.Context, puuid string, count int) ([]models.MatchInfo, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = matchfetcher.DefaultMatchCount
	}
	return m.MatchRepository.GetMatchesByPuuid(ctx, puuid, matchfetcher.ClampCount(count))
}

// processMatchInfo creates the match record.
func (m *MatchService) processMatchInfo(
	ctx context.Context,
	repo repositories.MatchRepository,
	payload *matchfetcher.Match,
) (*models.MatchInfo, error) {
	info := payload.Info
	matchInfo := &models.MatchInfo{
		MatchId:         payload.Metadata.MatchId,
		PlatformId:      info.PlatformId,
		QueueId:         info.QueueId,
		GameMode:        info.GameMode,
		GameType:        info.GameType,
		GameVersion:     info.GameVersion,
		MapId:           info.MapId,
		GameStart:       info.GameStartTimestamp.Time(),
		GameEnd:         info.GameEndTimestamp.Time(),
		GameDuration:    info.GameDuration,
		EndOfGameResult: info.EndOfGameResult,
	}

	if err := repo.CreateMatchInfo(ctx, matchInfo); err != nil {
		// Only the match id conflict means the match is stored, any other duplicate is a failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errMatchExists
		}
		return nil, fmt.Errorf("couldn't create the match info for the match %s: %w", matchInfo.MatchId, err)
	}
	return matchInfo, nil
}

// processTeams creates each team with it's bans and objectives.
// Returns the database id of each riot team id.
func (m *MatchService) processTeams(
	ctx context.Context,
	repo repositories.MatchRepository,
	teams []matchfetcher.TeamInfo,
	matchInfo *models.MatchInfo,
) (map[int]uint, error) {
	teamIds := make(map[int]uint, len(teams))

	for _, team := range teams {
		matchTeam := &models.MatchTeam{
			MatchId: matchInfo.ID,
			TeamId:  team.TeamId,
			Win:     team.Win,
		}
		if err := repo.CreateMatchTeam(ctx, matchTeam); err != nil {
			return nil, err
		}
		teamIds[team.TeamId] = matchTeam.ID

		// Some modes don't have bans.
		bans := make([]*models.MatchBan, 0, len(team.Bans))
		for _, ban := range team.Bans {
			bans = append(bans, &models.MatchBan{
				MatchTeamId: matchTeam.ID,
				ChampionId:  ban.ChampionId,
				PickTurn:    ban.PickTurn,
			})
		}
		if err := repo.CreateMatchBans(ctx, bans); err != nil {
			return nil, err
		}

		// One row per category, even the ones never taken.
		categories := team.Objectives.Categories()
		objectives := make([]*models.MatchObjective, 0, len(categories))
		for _, objective := range categories {
			objectives = append(objectives, &models.MatchObjective{
				MatchTeamId: matchTeam.ID,
				Category:    objective.Category,
				First:       objective.First,
				Kills:       objective.Kills,
			})
		}
		if err := repo.CreateMatchObjectives(ctx, objectives); err != nil {
			return nil, err
		}
	}

	return teamIds, nil
}

// processParticipants creates each participant, the player stub and the rune page.
func (m *MatchService) processParticipants(
	ctx context.Context,
	tx *gorm.DB,
	repo repositories.MatchRepository,
	payload *matchfetcher.Match,
	matchInfo *models.MatchInfo,
	teamIds map[int]uint,
) error {
	platform := strings.ToLower(payload.Info.PlatformId)

	for _, participant := range payload.Info.Participants {
		player, err := m.playerService.EnsureMinimalProfile(ctx, tx, participant, platform)
		if err != nil {
			return err
		}

		teamId, ok := teamIds[participant.TeamId]
		if !ok {
			return fmt.Errorf("participant %s has no team", participant.Puuid)
		}

		var playerId *uint
		if player != nil {
			playerId = &player.ID
		}

		record := participantRecord(participant, matchInfo.ID, teamId, playerId)
		if err := repo.CreateMatchParticipant(ctx, record); err != nil {
			return err
		}

		// Without usable rune data the participant is still stored.
		runes, ok := ExtractRunes(participant.Perks)
		if !ok {
			continue
		}
		runes.ParticipantId = record.ID
		if err := repo.CreateParticipantRunes(ctx, runes); err != nil {
			return err
		}
	}

	return nil
}

// participantRecord converts the payload participant to the stored one.
func participantRecord(participant matchfetcher.MatchPlayer, matchId uint, teamId uint, playerId *uint) *models.MatchParticipant {
	return &models.MatchParticipant{
		MatchId:     matchId,
		MatchTeamId: teamId,
		PlayerId:    playerId,
		Puuid:       participant.Puuid,

		ChampionId:    participant.ChampionId,
		ChampionName:  participant.ChampionName,
		ChampionLevel: participant.ChampionLevel,
		Lane:          participant.IndividualPosition,
		Win:           participant.Win,

		Kills:             participant.Kills,
		Deaths:            participant.Deaths,
		Assists:           participant.Assists,
		KillParticipation: participant.Challenges.KillParticipation,
		DoubleKills:       participant.DoubleKills,
		TripleKills:       participant.TripleKills,
		QuadraKills:       participant.QuadraKills,
		PentaKills:        participant.PentaKills,
		LargestMultiKill:  participant.LargestMultiKill,

		DamageDealtToChampions: participant.TotalDamageDealtToChampions,
		DamageTaken:            participant.TotalDamageTaken,
		TotalMinionsKilled:     participant.TotalMinionsKilled,
		NeutralMinionsKilled:   participant.NeutralMinionsKilled,
		GoldEarned:             participant.GoldEarned,

		VisionScore:       participant.VisionScore,
		WardsPlaced:       participant.WardsPlaced,
		WardsKilled:       participant.WardsKilled,
		VisionWardsBought: participant.VisionWardsBoughtInGame,

		Item0: participant.Item0,
		Item1: participant.Item1,
		Item2: participant.Item2,
		Item3: participant.Item3,
		Item4: participant.Item4,
		Item5: participant.Item5,
		Item6: participant.Item6,
	}
}

// Perk of the selection at the index, 0 if missing.
func selection(style matchfetcher.PerkStyle, index int) int {
	if index >= len(style.Selections) {
		return 0
	}
	return style.Selections[index].Perk
}

// ExtractRunes builds the rune page of a participant.
// Returns false when there is less than two styles or both styles are the same.
func ExtractRunes(perks *matchfetcher.Perks) (*models.MatchParticipantRunes, bool) {
	if perks == nil || len(perks.Styles) < 2 {
		return nil, false
	}

	primary := perks.Styles[0]
	secondary := perks.Styles[1]
	if primary.Style == secondary.Style {
		return nil, false
	}

	return &models.MatchParticipantRunes{
		PrimaryStyle: primary.Style,
		PrimaryPerk0: selection(primary, 0),
		PrimaryPerk1: selection(primary, 1),
		PrimaryPerk2: selection(primary, 2),
		PrimaryPerk3: selection(primary, 3),

		SecondaryStyle: secondary.Style,
		SecondaryPerk0: selection(secondary, 0),
		SecondaryPerk1: selection(secondary, 1),

		StatPerkDefense: perks.StatPerks.Defense,
		StatPerkFlex:    perks.StatPerks.Flex,
		StatPerkOffense: perks.StatPerks.Offense,
	}, true
}
