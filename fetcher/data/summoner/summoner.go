package summonerfetcher

import (
	"context"
	"fmt"

	"nexusiq/fetcher/requests"
	"nexusiq/pkg/regions"
)

// The summoner fetcher, queried by platform.
type SummonerFetcher struct {
	client requests.Requester
}

// NewSummonerFetcher creates a summoner fetcher.
func NewSummonerFetcher(client requests.Requester) *SummonerFetcher {
	return &SummonerFetcher{client: client}
}

// GetByPuuid returns the summoner data of a player on the given platform.
func (s *SummonerFetcher) GetByPuuid(ctx context.Context, puuid string, platform regions.Platform) (*SummonerByPuuid, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return nil, err
	}

	var summoner SummonerByPuuid
	path := fmt.Sprintf("/lol/summoner/v4/summoners/by-puuid/%s", puuid)
	if err := s.client.Get(ctx, string(platform), path, nil, &summoner); err != nil {
		return nil, err
	}

	return &summoner, nil
}
