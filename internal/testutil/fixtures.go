package testutil

import (
	"fmt"
	"time"

	matchfetcher "nexusiq/fetcher/data/match"
)

// NewParticipant builds a participant with a distinct rune page.
func NewParticipant(seed int, teamId int) matchfetcher.MatchPlayer {
	return matchfetcher.MatchPlayer{
		Puuid:              Puuid(seed),
		RiotIdGameName:     fmt.Sprintf("Player%d", seed),
		RiotIdTagline:      "EUW",
		SummonerLevel:      100 + seed,
		ProfileIcon:        seed,
		TeamId:             teamId,
		Win:                teamId == 100,
		ChampionId:         seed,
		ChampionName:       fmt.Sprintf("Champion%d", seed),
		ChampionLevel:      18,
		IndividualPosition: "MIDDLE",
		Kills:              seed,
		Deaths:             2,
		Assists:            7,
		GoldEarned:         12000,
		VisionScore:        30,
		Item0:              3089,
		Challenges:         matchfetcher.Challenges{KillParticipation: 0.5},
		Perks: &matchfetcher.Perks{
			StatPerks: matchfetcher.StatPerks{Defense: 5001, Flex: 5008, Offense: 5005},
			Styles: []matchfetcher.PerkStyle{
				{
					Description: "primaryStyle",
					Style:       8100,
					Selections: []matchfetcher.PerkSelection{
						{Perk: 8112}, {Perk: 8139}, {Perk: 8138}, {Perk: 8135},
					},
				},
				{
					Description: "subStyle",
					Style:       8300,
					Selections: []matchfetcher.PerkSelection{
						{Perk: 8345}, {Perk: 8347},
					},
				},
			},
		},
	}
}

// NewMatch builds a full two teams match with ten participants.
// The participant seeds start at firstSeed.
func NewMatch(matchId string, firstSeed int) *matchfetcher.Match {
	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	match := &matchfetcher.Match{
		Metadata: matchfetcher.MatchMetadata{MatchId: matchId},
		Info: matchfetcher.MatchInfo{
			EndOfGameResult:    "GameComplete",
			GameCreation:       matchfetcher.RiotTime(start.Add(-time.Minute)),
			GameStartTimestamp: matchfetcher.RiotTime(start),
			GameEndTimestamp:   matchfetcher.RiotTime(start.Add(31 * time.Minute)),
			GameDuration:       31 * 60,
			GameMode:           "CLASSIC",
			GameType:           "MATCHED_GAME",
			GameVersion:        "15.4.1",
			MapId:              11,
			PlatformId:         "EUW1",
			QueueId:            420,
			Teams: []matchfetcher.TeamInfo{
				{
					TeamId: 100,
					Win:    true,
					Bans:   []matchfetcher.Ban{{ChampionId: 1, PickTurn: 1}, {ChampionId: 2, PickTurn: 2}},
					Objectives: matchfetcher.Objectives{
						Baron:    matchfetcher.Objective{First: true, Kills: 1},
						Champion: matchfetcher.Objective{First: true, Kills: 30},
						Dragon:   matchfetcher.Objective{First: true, Kills: 3},
						Tower:    matchfetcher.Objective{First: true, Kills: 9},
					},
				},
				{
					TeamId: 200,
					Win:    false,
					Bans:   []matchfetcher.Ban{{ChampionId: 3, PickTurn: 6}},
					Objectives: matchfetcher.Objectives{
						Champion: matchfetcher.Objective{Kills: 12},
						Horde:    matchfetcher.Objective{First: true, Kills: 3},
					},
				},
			},
		},
	}

	for i := 0; i < 10; i++ {
		teamId := 100
		if i >= 5 {
			teamId = 200
		}
		participant := NewParticipant(firstSeed+i, teamId)
		match.Metadata.Participants = append(match.Metadata.Participants, participant.Puuid)
		match.Info.Participants = append(match.Info.Participants, participant)
	}

	return match
}
