package summonerservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	matchfetcher "nexusiq/fetcher/data/match"
	"nexusiq/fetcher/requests"
	matchservice "nexusiq/fetcher/services/match"
	playerservice "nexusiq/fetcher/services/player"
	ratingservice "nexusiq/fetcher/services/rating"
	riotservice "nexusiq/fetcher/services/riot"
	"nexusiq/pkg/database/models"
	"nexusiq/pkg/freshness"
	"nexusiq/pkg/logger"
	"nexusiq/pkg/messages"

	"gorm.io/gorm"
)

// How long a refresh lock is held at most.
const refreshLockTTL = 30 * time.Second

// Default amount of matches refreshed per request.
const DefaultMatchHistoryCount = 20

// ErrRefreshInProgress is returned when another request is refreshing a player that isn't cached yet.
var ErrRefreshInProgress = errors.New(messages.OperationInProgress)

// Fetcher is the upstream side used by the service.
type Fetcher interface {
	GetSummoner(ctx context.Context, gameName string, tagLine string) (*riotservice.SummonerProfile, error)
	GetSummonerByPuuid(ctx context.Context, puuid string) (*riotservice.SummonerProfile, error)
	GetRecentMatches(ctx context.Context, puuid string, regionCode string, count int) ([]*matchfetcher.Match, error)
}

// Locker guards a refresh across every instance.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	Unlock(ctx context.Context, key string, token string) error
}

// Summoner is a cached player with it's ranked entries.
type Summoner struct {
	Player    *models.PlayerInfo
	Ratings   []models.RatingEntry
	Refreshed bool
}

// SummonerService serves players from the cache, refreshing them from upstream when stale.
type SummonerService struct {
	db      *gorm.DB
	fetcher Fetcher
	locker  Locker
	logger  *logger.Logger
	ttl     time.Duration
	now     func() time.Time

	PlayerService *playerservice.PlayerService
	RatingService *ratingservice.RatingService
	MatchService  *matchservice.MatchService
}

// SummonerServiceDeps are the dependencies of the summoner service.
type SummonerServiceDeps struct {
	DB            *gorm.DB
	Fetcher       Fetcher
	Locker        Locker
	Logger        *logger.Logger
	TTL           time.Duration
	PlayerService *playerservice.PlayerService
	RatingService *ratingservice.RatingService
	MatchService  *matchservice.MatchService
}

// NewSummonerService creates the summoner service.
// Without a locker concurrent refreshes of the same player aren't deduplicated.
func NewSummonerService(deps *SummonerServiceDeps) *SummonerService {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	ttl := deps.TTL
	if ttl <= 0 {
		ttl = freshness.DefaultTTL
	}

	return &SummonerService{
		db:            deps.DB,
		fetcher:       deps.Fetcher,
		locker:        deps.Locker,
		logger:        log,
		ttl:           ttl,
		now:           time.Now,
		PlayerService: deps.PlayerService,
		RatingService: deps.RatingService,
		MatchService:  deps.MatchService,
	}
}

// createRefreshLockKey generates a consistent hash-based key for the refresh lock.
func createRefreshLockKey(gameName string, tagLine string) string {
	keyData := fmt.Sprintf("%s|%s",
		strings.ToLower(strings.TrimSpace(gameName)),
		strings.ToLower(strings.TrimSpace(tagLine)))

	hasher := sha256.New()
	hasher.Write([]byte(keyData))

	return fmt.Sprintf("refresh_summoner:%s", hex.EncodeToString(hasher.Sum(nil)))
}

// withRatings loads the ranked entries of the player.
func (s *SummonerService) withRatings(ctx context.Context, player *models.PlayerInfo, refreshed bool) (*Summoner, error) {
	ratings, err := s.RatingService.GetPlayerRatings(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	return &Summoner{Player: player, Ratings: ratings, Refreshed: refreshed}, nil
}

// FindOrRefresh returns the player from the cache, refreshing it from upstream when stale or missing.
// A cancelled context aborts before anything is written.
func (s *SummonerService) FindOrRefresh(ctx context.Context, gameName string, tagLine string) (*Summoner, error) {
	if err := requests.ValidateRiotId(gameName, tagLine); err != nil {
		return nil, err
	}

	cached, err := s.PlayerService.GetByNameTag(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}

	if cached != nil && !freshness.IsStale(s.now(), cached.LastSyncedAt, s.ttl) {
		s.logger.Debugf("Serving %s#%s from the cache", gameName, tagLine)
		return s.withRatings(ctx, cached, false)
	}

	// Only one request refreshes a player at a time.
	if s.locker != nil {
		key := createRefreshLockKey(gameName, tagLine)
		token, acquired, err := s.locker.TryLock(ctx, key, refreshLockTTL)
		switch {
		case err != nil:
			s.logger.Warnf("Couldn't take the refresh lock of %s#%s, refreshing anyway: %v", gameName, tagLine, err)
		case !acquired:
			if cached != nil {
				return s.withRatings(ctx, cached, false)
			}
			return nil, ErrRefreshInProgress
		default:
			defer func() {
				if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
					s.logger.Warnf("Couldn't release the refresh lock of %s#%s: %v", gameName, tagLine, err)
				}
			}()
		}
	}

	profile, err := s.fetcher.GetSummoner(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}

	player, err := s.saveProfile(ctx, profile, cached)
	if err != nil {
		return nil, err
	}

	return s.withRatings(ctx, player, true)
}

// saveProfile stores the profile and it's ranked entries in one transaction.
func (s *SummonerService) saveProfile(
	ctx context.Context,
	profile *riotservice.SummonerProfile,
	cached *models.PlayerInfo,
) (*models.PlayerInfo, error) {
	var saved *models.PlayerInfo

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		player, err := s.PlayerService.SaveSyncedProfile(ctx, tx, &models.PlayerInfo{
			Puuid:          profile.Puuid,
			RiotIdGameName: profile.GameName,
			RiotIdTagline:  profile.TagLine,
			Region:         string(profile.Platform),
			ProfileIcon:    profile.ProfileIcon,
			SummonerLevel:  profile.SummonerLevel,
			RevisionDate:   profile.RevisionDate,
		}, s.now())
		if err != nil {
			return err
		}

		// Nothing changed upstream since the last full sync, the entries are kept.
		unchanged := cached != nil &&
			!cached.IsStub &&
			cached.Puuid == profile.Puuid &&
			!freshness.RevisionChanged(cached.RevisionDate, profile.RevisionDate)

		if !unchanged {
			plan, err := s.RatingService.SyncPlayerRatings(ctx, tx, player.ID, profile.Leagues)
			if err != nil {
				return err
			}
			s.logger.Debugf("Ratings of %s: %d updated, %d retired, %d created",
				profile.Puuid, len(plan.Update), len(plan.Retire), len(plan.Create))
		}

		// The caller may have given up while we were writing.
		if err := ctx.Err(); err != nil {
			return err
		}

		saved = player
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't save the summoner %s: %w", profile.Puuid, err)
	}

	return saved, nil
}

// RefreshMatchHistory fetches the latest matches of a player and ingests them.
// A player missing from the cache is resolved by puuid first.
func (s *SummonerService) RefreshMatchHistory(ctx context.Context, puuid string, count int) (matchservice.Counts, error) {
	if err := requests.ValidatePuuid(puuid); err != nil {
		return matchservice.Counts{}, err
	}

	player, err := s.PlayerService.GetByPuuid(ctx, puuid)
	if err != nil {
		return matchservice.Counts{}, err
	}

	// The region routes the match API, unknown players are resolved upstream first.
	if player == nil || player.Region == "" {
		player, err = s.resolveByPuuid(ctx, puuid, player)
		if err != nil {
			return matchservice.Counts{}, err
		}
	}

	if count <= 0 {
		count = DefaultMatchHistoryCount
	}

	matches, err := s.fetcher.GetRecentMatches(ctx, puuid, player.Region, count)
	if err != nil {
		return matchservice.Counts{}, err
	}

	counts := s.MatchService.IngestMatches(ctx, matches)
	s.logger.Infof("Match history of %s refreshed: %d processed, %d skipped, %d errors",
		puuid, counts.Processed, counts.Skipped, counts.Errors)

	return counts, nil
}

// resolveByPuuid fetches a player missing from the cache by it's puuid and stores it.
func (s *SummonerService) resolveByPuuid(ctx context.Context, puuid string, cached *models.PlayerInfo) (*models.PlayerInfo, error) {
	profile, err := s.fetcher.GetSummonerByPuuid(ctx, puuid)
	if err != nil {
		return nil, err
	}
	return s.saveProfile(ctx, profile, cached)
}

// GetMatches returns the stored matches of a player, most recent first.
func (s *SummonerService) GetMatches(ctx context.Context, puuid string, count int) ([]models.MatchInfo, error) {
	return s.MatchService.GetPlayerMatches(ctx, puuid, count)
}
