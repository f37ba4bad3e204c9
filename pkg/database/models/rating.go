package models

import (
	"time"
)

// RatingEntry contains the current standing of a player in a ranked queue.
// A player has at most one entry per queue.
type RatingEntry struct {
	ID uint `gorm:"primaryKey"`

	// Reference to the player that has the rating.
	PlayerId uint `gorm:"not null;uniqueIndex:idx_player_queue,priority:1"`

	Queue        string `gorm:"type:varchar(30);not null;uniqueIndex:idx_player_queue,priority:2"`
	LeagueId     string `gorm:"type:varchar(64);index"`
	Tier         string `gorm:"type:varchar(15)"`
	Rank         string `gorm:"type:varchar(5)"`
	NumericScore int
	LeaguePoints int
	Wins         int
	Losses       int
	Veteran      bool
	Inactive     bool
	FreshBlood   bool
	HotStreak    bool
	UpdatedAt    time.Time
}
