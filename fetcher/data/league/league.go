package leaguefetcher

import (
	"context"
	"fmt"

	"nexusiq/fetcher/requests"
	"nexusiq/pkg/regions"
)

// The league fetcher, queried by platform.
type LeagueFetcher struct {
	client requests.Requester
}

// NewLeagueFetcher creates a league fetcher.
func NewLeagueFetcher(client requests.Requester) *LeagueFetcher {
	return &LeagueFetcher{client: client}
}

// GetEntriesByPuuid returns a given player entries for each ranked queue.
func (l *LeagueFetcher) GetEntriesByPuuid(ctx context.Context, puuid string, platform regions.Platform) ([]LeagueEntry, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return nil, err
	}

	var entries LeagueEntries
	path := fmt.Sprintf("/lol/league/v4/entries/by-puuid/%s", puuid)
	if err := l.client.Get(ctx, string(platform), path, nil, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
