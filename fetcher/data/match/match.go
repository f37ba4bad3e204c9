package matchfetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"nexusiq/fetcher/requests"
	"nexusiq/pkg/regions"
)

// Limits of the match id listing.
const (
	DefaultMatchCount = 20
	MinMatchCount     = 1
	MaxMatchCount     = 100
)

// The match fetcher, queried by region.
type MatchFetcher struct {
	client requests.Requester
}

// NewMatchFetcher creates a instance of the match fetcher.
func NewMatchFetcher(client requests.Requester) *MatchFetcher {
	return &MatchFetcher{client: client}
}

// MatchIdsFilter contains the optional filters of the match id listing.
// Zero values are not sent.
type MatchIdsFilter struct {
	Count     int
	Start     int
	Queue     int
	Type      string
	StartTime int64 // Epoch seconds.
	EndTime   int64 // Epoch seconds.
}

// ClampCount keeps the count inside the accepted range.
func ClampCount(count int) int {
	if count < MinMatchCount {
		return MinMatchCount
	}
	if count > MaxMatchCount {
		return MaxMatchCount
	}
	return count
}

// Build the query parameters.
func (f MatchIdsFilter) query() url.Values {
	count := f.Count
	if count == 0 {
		count = DefaultMatchCount
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(ClampCount(count)))
	if f.Start > 0 {
		params.Set("start", strconv.Itoa(f.Start))
	}
	if f.Queue > 0 {
		params.Set("queue", strconv.Itoa(f.Queue))
	}
	if f.Type != "" {
		params.Set("type", f.Type)
	}
	if f.StartTime > 0 {
		params.Set("startTime", strconv.FormatInt(f.StartTime, 10))
	}
	if f.EndTime > 0 {
		params.Set("endTime", strconv.FormatInt(f.EndTime, 10))
	}
	return params
}

// GetMatchIdsByPuuid returns a players match list, most recent first.
func (m *MatchFetcher) GetMatchIdsByPuuid(ctx context.Context, puuid string, region regions.Region, filter MatchIdsFilter) ([]string, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return nil, err
	}
	if filter.Start < 0 {
		return nil, &requests.ValidationError{Field: "start", Reason: "must not be negative"}
	}

	var matches []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", puuid)
	if err := m.client.Get(ctx, string(region), path, filter.query(), &matches); err != nil {
		return nil, err
	}

	return matches, nil
}

// GetMatch returns a given match data.
func (m *MatchFetcher) GetMatch(ctx context.Context, matchId string, region regions.Region) (*Match, error) {
	if err := requests.ValidateMatchId(matchId); err != nil {
		return nil, err
	}

	var match Match
	path := fmt.Sprintf("/lol/match/v5/matches/%s", url.PathEscape(matchId))
	if err := m.client.Get(ctx, string(region), path, nil, &match); err != nil {
		return nil, err
	}

	return &match, nil
}
