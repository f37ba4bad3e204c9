package matchfetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nexusiq/fetcher/requests"
)

// Handle the conversion of the int timestamps from riot.
type RiotTime time.Time

// Add the riot time UnmarshalJSON.
func (rt *RiotTime) UnmarshalJSON(b []byte) error {
	var timestamp int64
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}

	// Convert milliseconds to time.Time
	*rt = RiotTime(time.UnixMilli(timestamp).UTC())
	return nil
}

// Write back the milliseconds, like riot does.
func (rt RiotTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(rt).UnixMilli())
}

// Get the true time.
func (rt RiotTime) Time() time.Time {
	return time.Time(rt)
}

// Return type from the match_v5 endpoint.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// Match metadata.
type MatchMetadata struct {
	MatchId      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

// Match information.
type MatchInfo struct {
	EndOfGameResult    string        `json:"endOfGameResult"`
	GameCreation       RiotTime      `json:"gameCreation"`
	GameStartTimestamp RiotTime      `json:"gameStartTimestamp"`
	GameEndTimestamp   RiotTime      `json:"gameEndTimestamp"`
	GameDuration       int           `json:"gameDuration"`
	GameMode           string        `json:"gameMode"`
	GameType           string        `json:"gameType"`
	GameVersion        string        `json:"gameVersion"`
	MapId              int           `json:"mapId"`
	PlatformId         string        `json:"platformId"`
	QueueId            int           `json:"queueId"`
	Participants       []MatchPlayer `json:"participants"`
	Teams              []TeamInfo    `json:"teams"`
}

// Player results.
type MatchPlayer struct {
	Puuid          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	SummonerLevel  int    `json:"summonerLevel"`
	ProfileIcon    int    `json:"profileIcon"`
	TeamId         int    `json:"teamId"`
	Win            bool   `json:"win"`

	ChampionId         int    `json:"championId"`
	ChampionName       string `json:"championName"`
	ChampionLevel      int    `json:"champLevel"`
	IndividualPosition string `json:"individualPosition"`

	Kills            int `json:"kills"`
	Deaths           int `json:"deaths"`
	Assists          int `json:"assists"`
	DoubleKills      int `json:"doubleKills"`
	TripleKills      int `json:"tripleKills"`
	QuadraKills      int `json:"quadraKills"`
	PentaKills       int `json:"pentaKills"`
	LargestMultiKill int `json:"largestMultiKill"`

	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	GoldEarned                  int `json:"goldEarned"`

	VisionScore             int `json:"visionScore"`
	WardsPlaced             int `json:"wardsPlaced"`
	WardsKilled             int `json:"wardsKilled"`
	VisionWardsBoughtInGame int `json:"visionWardsBoughtInGame"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"`

	Challenges Challenges `json:"challenges"`
	Perks      *Perks     `json:"perks"`
}

// Challenges of the player for this match.
// Only the kill participation is stored, other values can be calculated.
type Challenges struct {
	KillParticipation float64 `json:"killParticipation"`
}

// Rune page of the player.
type Perks struct {
	StatPerks StatPerks   `json:"statPerks"`
	Styles    []PerkStyle `json:"styles"`
}

// Stat shards.
type StatPerks struct {
	Defense int `json:"defense"`
	Flex    int `json:"flex"`
	Offense int `json:"offense"`
}

// A rune tree with the selected runes.
type PerkStyle struct {
	Description string          `json:"description"`
	Style       int             `json:"style"`
	Selections  []PerkSelection `json:"selections"`
}

// A single selected rune.
type PerkSelection struct {
	Perk int `json:"perk"`
}

// Team information.
type TeamInfo struct {
	Bans       []Ban      `json:"bans"`
	Objectives Objectives `json:"objectives"`
	TeamId     int        `json:"teamId"`
	Win        bool       `json:"win"`
}

// Ban information.
type Ban struct {
	ChampionId int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// A single objective of a team.
type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

// Objectives taken by a team.
type Objectives struct {
	Baron      Objective `json:"baron"`
	Champion   Objective `json:"champion"`
	Dragon     Objective `json:"dragon"`
	Horde      Objective `json:"horde"`
	Inhibitor  Objective `json:"inhibitor"`
	RiftHerald Objective `json:"riftHerald"`
	Tower      Objective `json:"tower"`
}

// Objective categories, in storage order.
const (
	ObjectiveBaron      = "baron"
	ObjectiveChampion   = "champion"
	ObjectiveDragon     = "dragon"
	ObjectiveHorde      = "horde"
	ObjectiveInhibitor  = "inhibitor"
	ObjectiveRiftHerald = "riftHerald"
	ObjectiveTower      = "tower"
)

// NamedObjective pairs a objective with it's category.
type NamedObjective struct {
	Category string
	Objective
}

// Categories returns one entry per objective category.
func (o Objectives) Categories() []NamedObjective {
	return []NamedObjective{
		{ObjectiveBaron, o.Baron},
		{ObjectiveChampion, o.Champion},
		{ObjectiveDragon, o.Dragon},
		{ObjectiveHorde, o.Horde},
		{ObjectiveInhibitor, o.Inhibitor},
		{ObjectiveRiftHerald, o.RiftHerald},
		{ObjectiveTower, o.Tower},
	}
}

// Validate the fields the ingestion depends on.
func (m *Match) Validate() error {
	if m.Metadata.MatchId == "" {
		return errors.New("missing required field \"metadata.matchId\"")
	}
	if len(m.Info.Teams) == 0 {
		return errors.New("missing required field \"info.teams\"")
	}

	teams := make(map[int]bool, len(m.Info.Teams))
	for _, team := range m.Info.Teams {
		if teams[team.TeamId] {
			return fmt.Errorf("team %d listed twice", team.TeamId)
		}
		teams[team.TeamId] = true
	}

	players := make(map[string]bool, len(m.Info.Participants))
	for i, participant := range m.Info.Participants {
		if participant.Puuid == "" {
			return fmt.Errorf("participant %d: missing required field \"puuid\"", i)
		}
		if !teams[participant.TeamId] {
			return fmt.Errorf("participant %d: unknown team %d", i, participant.TeamId)
		}

		// Bots share a placeholder puuid, only real players must be unique.
		if !participant.IsPlayer() {
			continue
		}
		if players[participant.Puuid] {
			return fmt.Errorf("participant %d: puuid listed twice", i)
		}
		players[participant.Puuid] = true
	}
	return nil
}

// IsPlayer tells if the participant is a real player, bots don't carry a valid puuid.
func (p MatchPlayer) IsPlayer() bool {
	return requests.ValidatePuuid(p.Puuid) == nil
}
