package summonerfetcher

import (
	"errors"
	"time"
)

// SummonerByPuuid is the return of the platform summoner endpoint.
type SummonerByPuuid struct {
	Puuid         string `json:"puuid"`
	ProfileIconId int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"` // Milliseconds since epoch.
	SummonerLevel int    `json:"summonerLevel"`
}

func (s *SummonerByPuuid) Validate() error {
	if s.Puuid == "" {
		return errors.New("missing required field \"puuid\"")
	}
	if s.RevisionDate <= 0 {
		return errors.New("missing required field \"revisionDate\"")
	}
	return nil
}

// RevisionTime returns the last time the summoner changed upstream.
func (s *SummonerByPuuid) RevisionTime() time.Time {
	return time.UnixMilli(s.RevisionDate).UTC()
}
