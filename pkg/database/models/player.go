package models

import (
	"time"
)

// PlayerInfo is the cached profile of a player.
// The puuid is the identity, name and tag can change at any time.
type PlayerInfo struct {
	ID             uint   `gorm:"primaryKey"`
	Puuid          string `gorm:"type:char(78);uniqueIndex;not null"` // Unique identifier.
	RiotIdGameName string `gorm:"type:varchar(100);index:idx_name_tag"` // Shouldn't have more than 16, adding 100 due to some edge cases.
	RiotIdTagline  string `gorm:"type:varchar(10);index:idx_name_tag"`
	Region         string `gorm:"type:varchar(5)"` // Platform where the player is active.
	ProfileIcon    int
	SummonerLevel  int

	// Last time the player changed upstream.
	RevisionDate time.Time

	// Last time the player was refreshed from upstream, zero for stubs.
	LastSyncedAt time.Time

	// Created from a match participant, without a full fetch.
	IsStub bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
