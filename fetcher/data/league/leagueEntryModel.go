package leaguefetcher

import "fmt"

// LeagueEntry defines the type returned by the league entries.
type LeagueEntry struct {
	LeagueId     string `json:"leagueId"`
	Puuid        string `json:"puuid"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Veteran      bool   `json:"veteran"`
	Inactive     bool   `json:"inactive"`
	FreshBlood   bool   `json:"freshBlood"`
	HotStreak    bool   `json:"hotStreak"`
}

// LeagueEntries is the list returned by the entries endpoint.
type LeagueEntries []LeagueEntry

// Validate each entry, a entry without league or queue can't be reconciled.
func (entries LeagueEntries) Validate() error {
	for i, entry := range entries {
		if entry.LeagueId == "" {
			return fmt.Errorf("entry %d: missing required field \"leagueId\"", i)
		}
		if entry.QueueType == "" {
			return fmt.Errorf("entry %d: missing required field \"queueType\"", i)
		}
	}
	return nil
}
