package accountfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"nexusiq/fetcher/requests"
	"nexusiq/pkg/regions"
)

// ErrAccountNotFound is returned when a riot id doesn't resolve to a account.
var ErrAccountNotFound = errors.New("account not found")

// The account fetcher with the regional routing value it queries.
type AccountFetcher struct {
	client requests.Requester
	region regions.Region
}

// NewAccountFetcher creates a account fetcher.
// The account endpoints are served by any region, so a single default one is used.
func NewAccountFetcher(client requests.Requester, region regions.Region) *AccountFetcher {
	return &AccountFetcher{
		client: client,
		region: region,
	}
}

// GetByRiotId resolves a game name and tag into a account.
// A 404 is translated into ErrAccountNotFound, still matching the NotFoundError.
func (a *AccountFetcher) GetByRiotId(ctx context.Context, gameName string, tagLine string) (*Account, error) {
	if err := requests.ValidateRiotId(gameName, tagLine); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(strings.TrimSpace(gameName)), url.PathEscape(strings.TrimSpace(tagLine)))

	var account Account
	if err := a.client.Get(ctx, string(a.region), path, nil, &account); err != nil {
		if requests.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
		}
		return nil, err
	}

	return &account, nil
}

// GetByPuuid returns the account of a given puuid.
func (a *AccountFetcher) GetByPuuid(ctx context.Context, puuid string) (*Account, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return nil, err
	}

	var account Account
	path := fmt.Sprintf("/riot/account/v1/accounts/by-puuid/%s", puuid)
	if err := a.client.Get(ctx, string(a.region), path, nil, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// GetActiveRegion returns the platform where the player is active for the given game.
func (a *AccountFetcher) GetActiveRegion(ctx context.Context, game string, puuid string) (regions.Platform, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return "", err
	}
	if game == "" {
		return "", &requests.ValidationError{Field: "game", Reason: "must not be empty"}
	}

	var shard ActiveRegion
	path := fmt.Sprintf("/riot/account/v1/region/by-game/%s/by-puuid/%s", url.PathEscape(game), puuid)
	if err := a.client.Get(ctx, string(a.region), path, nil, &shard); err != nil {
		return "", err
	}

	// A shard outside the routing table is a schema mismatch.
	platform, err := regions.ToPlatform(shard.Region)
	if err != nil {
		return "", &requests.MalformedResponseError{Err: err}
	}

	return platform, nil
}
