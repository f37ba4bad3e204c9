package models

import (
	"time"
)

// Database model for the match information.
// A match is never changed after being inserted.
type MatchInfo struct {
	ID              uint   `gorm:"primaryKey"`
	MatchId         string `gorm:"type:varchar(30);uniqueIndex;not null"`
	PlatformId      string `gorm:"type:varchar(10)"`
	QueueId         int    `gorm:"index"`
	GameMode        string `gorm:"type:varchar(30)"`
	GameType        string `gorm:"type:varchar(30)"`
	GameVersion     string `gorm:"type:varchar(30)"`
	MapId           int
	GameStart       time.Time
	GameEnd         time.Time
	GameDuration    int
	EndOfGameResult string `gorm:"type:varchar(30)"`
	CreatedAt       time.Time
}

// Database model for a team of a match.
type MatchTeam struct {
	ID      uint `gorm:"primaryKey"`
	MatchId uint `gorm:"not null;uniqueIndex:idx_match_team,priority:1"`
	TeamId  int  `gorm:"not null;uniqueIndex:idx_match_team,priority:2"` // 100 or 200.
	Win     bool
}

// Database model for saving the team bans.
type MatchBan struct {
	ID          uint `gorm:"primaryKey"`
	MatchTeamId uint `gorm:"not null;index"`
	ChampionId  int
	PickTurn    int
}

// Database model for a objective category of a team.
type MatchObjective struct {
	ID          uint   `gorm:"primaryKey"`
	MatchTeamId uint   `gorm:"not null;uniqueIndex:idx_team_objective,priority:1"`
	Category    string `gorm:"type:varchar(20);not null;uniqueIndex:idx_team_objective,priority:2"`
	First       bool
	Kills       int
}

// Database model for saving a player perfomance in a given match.
type MatchParticipant struct {
	// Ids and identifiers for the participant.
	ID          uint64 `gorm:"primaryKey"`
	MatchId     uint   `gorm:"not null;uniqueIndex:idx_match_player,priority:1"`
	MatchTeamId uint   `gorm:"not null;index"`
	PlayerId    *uint  `gorm:"uniqueIndex:idx_match_player,priority:2"` // Nil for bots.
	Puuid       string `gorm:"type:char(78);index"`

	ChampionId    int
	ChampionName  string `gorm:"type:varchar(30)"`
	ChampionLevel int
	Lane          string `gorm:"type:varchar(15)"`
	Win           bool

	Kills             int
	Deaths            int
	Assists           int
	KillParticipation float64
	DoubleKills       int
	TripleKills       int
	QuadraKills       int
	PentaKills        int
	LargestMultiKill  int

	DamageDealtToChampions int
	DamageTaken            int
	TotalMinionsKilled     int
	NeutralMinionsKilled   int
	GoldEarned             int

	VisionScore       int
	WardsPlaced       int
	WardsKilled       int
	VisionWardsBought int

	Item0 int
	Item1 int
	Item2 int
	Item3 int
	Item4 int
	Item5 int
	Item6 int
}

// Database model for the rune page of a participant.
type MatchParticipantRunes struct {
	ID            uint   `gorm:"primaryKey"`
	ParticipantId uint64 `gorm:"not null;uniqueIndex"`

	PrimaryStyle int
	PrimaryPerk0 int
	PrimaryPerk1 int
	PrimaryPerk2 int
	PrimaryPerk3 int

	SecondaryStyle int
	SecondaryPerk0 int
	SecondaryPerk1 int

	StatPerkDefense int
	StatPerkFlex    int
	StatPerkOffense int
}

// The plural would be ambiguous.
func (MatchParticipantRunes) TableName() string {
	return "match_participant_runes"
}

// All returns every model, in creation order.
func All() []any {
	return []any{
		&PlayerInfo{},
		&RatingEntry{},
		&MatchInfo{},
		&MatchTeam{},
		&MatchBan{},
		&MatchObjective{},
		&MatchParticipant{},
		&MatchParticipantRunes{},
	}
}
