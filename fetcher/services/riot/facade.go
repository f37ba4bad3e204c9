package riotservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nexusiq/fetcher/data"
	accountfetcher "nexusiq/fetcher/data/account"
	leaguefetcher "nexusiq/fetcher/data/league"
	matchfetcher "nexusiq/fetcher/data/match"
	"nexusiq/fetcher/requests"
	"nexusiq/pkg/logger"
	"nexusiq/pkg/messages"
	"nexusiq/pkg/regions"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"
)

// The game used to resolve the active region of a account.
const lolGame = "lol"

// Default time a active region stays cached.
const DefaultRegionCacheTTL = 10 * time.Minute

// Maximum match details fetched at the same time.
const matchFetchConcurrency = 4

// ErrSummonerNotFound is returned when the player doesn't exist upstream.
var ErrSummonerNotFound = errors.New(messages.SummonerNotFound)

// SummonerProfile is the aggregated profile of a player.
type SummonerProfile struct {
	Puuid         string
	Platform      regions.Platform
	GameName      string
	TagLine       string
	SummonerLevel int
	ProfileIcon   int
	RevisionDate  time.Time
	Leagues       []leaguefetcher.LeagueEntry
}

// Facade composes the domain clients for the common operations.
type Facade struct {
	fetcher     *data.MainFetcher
	logger      *logger.Logger
	regionCache *ttlcache.Cache[string, regions.Platform]
	stopOnce    sync.Once
}

// NewFacade creates the facade over the fetchers.
func NewFacade(fetcher *data.MainFetcher, log *logger.Logger, regionTTL time.Duration) *Facade {
	if log == nil {
		log = logger.Nop()
	}
	if regionTTL <= 0 {
		regionTTL = DefaultRegionCacheTTL
	}

	cache := ttlcache.New[string, regions.Platform](
		ttlcache.WithTTL[string, regions.Platform](regionTTL),
		ttlcache.WithDisableTouchOnHit[string, regions.Platform](),
	)
	go cache.Start()

	return &Facade{
		fetcher:     fetcher,
		logger:      log,
		regionCache: cache,
	}
}

// Close stops the cache cleanup.
func (f *Facade) Close() {
	f.stopOnce.Do(f.regionCache.Stop)
}

// activePlatform returns the platform of the player, cached per puuid.
func (f *Facade) activePlatform(ctx context.Context, puuid string) (regions.Platform, error) {
	if item := f.regionCache.Get(puuid); item != nil {
		return item.Value(), nil
	}

	platform, err := f.fetcher.Account.GetActiveRegion(ctx, lolGame, puuid)
	if err != nil {
		return "", err
	}

	f.regionCache.Set(puuid, platform, ttlcache.DefaultTTL)
	return platform, nil
}

// profile fetches the platform data of a resolved account.
func (f *Facade) profile(ctx context.Context, puuid string, gameName string, tagLine string) (*SummonerProfile, error) {
	platform, err := f.activePlatform(ctx, puuid)
	if err != nil {
		return nil, err
	}

	summoner, err := f.fetcher.Summoner.GetByPuuid(ctx, puuid, platform)
	if err != nil {
		return nil, err
	}

	leagues, err := f.fetcher.League.GetEntriesByPuuid(ctx, puuid, platform)
	if err != nil {
		return nil, err
	}

	return &SummonerProfile{
		Puuid:         puuid,
		Platform:      platform,
		GameName:      gameName,
		TagLine:       tagLine,
		SummonerLevel: summoner.SummonerLevel,
		ProfileIcon:   summoner.ProfileIconId,
		RevisionDate:  summoner.RevisionTime(),
		Leagues:       leagues,
	}, nil
}

// GetSummoner resolves the riot id and returns the complete profile.
// Only a unknown riot id is translated into ErrSummonerNotFound, later failures are returned as is.
func (f *Facade) GetSummoner(ctx context.Context, gameName string, tagLine string) (*SummonerProfile, error) {
	f.logger.Debugf("Getting summoner %s#%s", gameName, tagLine)

	account, err := f.fetcher.Account.GetByRiotId(ctx, gameName, tagLine)
	if err != nil {
		if errors.Is(err, accountfetcher.ErrAccountNotFound) || requests.IsNotFound(err) {
			return nil, ErrSummonerNotFound
		}
		return nil, err
	}

	return f.profile(ctx, account.Puuid, account.GameName, account.TagLine)
}

// GetSummonerByPuuid returns the complete profile of a known player.
// Every failure is logged and returned as ErrSummonerNotFound.
func (f *Facade) GetSummonerByPuuid(ctx context.Context, puuid string) (*SummonerProfile, error) {
	account, err := f.fetcher.Account.GetByPuuid(ctx, puuid)
	if err != nil {
		f.logger.Warnf("Failed to get the account of %s: %v", shortPuuid(puuid), err)
		return nil, ErrSummonerNotFound
	}

	profile, err := f.profile(ctx, puuid, account.GameName, account.TagLine)
	if err != nil {
		f.logger.Warnf("Failed to get the summoner %s: %v", shortPuuid(puuid), err)
		return nil, ErrSummonerNotFound
	}

	return profile, nil
}

// GetRecentMatches returns the details of the latest matches of the player, in the upstream order.
// A match that can't be fetched is skipped, a failure listing the ids is returned.
func (f *Facade) GetRecentMatches(ctx context.Context, puuid string, regionCode string, count int) ([]*matchfetcher.Match, error) {
	region, err := regions.RegionFromCode(regionCode)
	if err != nil {
		return nil, err
	}

	ids, err := f.fetcher.Match.GetMatchIdsByPuuid(ctx, puuid, region, matchfetcher.MatchIdsFilter{Count: count})
	if err != nil {
		return nil, fmt.Errorf("couldn't get the match ids: %w", err)
	}

	// Each goroutine writes only it's own index.
	results := make([]*matchfetcher.Match, len(ids))
	var g errgroup.Group
	g.SetLimit(matchFetchConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			match, err := f.fetcher.Match.GetMatch(ctx, id, region)
			if err != nil {
				f.logger.Warnf("Failed to fetch the match %s: %v", id, err)
				return nil
			}
			results[i] = match
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled caller gets nothing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := make([]*matchfetcher.Match, 0, len(results))
	for _, match := range results {
		if match != nil {
			matches = append(matches, match)
		}
	}

	return matches, nil
}

func shortPuuid(puuid string) string {
	if len(puuid) > 8 {
		return puuid[:8]
	}
	return puuid
}
