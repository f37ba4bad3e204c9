package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexusiq/fetcher/requests"
	matchservice "nexusiq/fetcher/services/match"
	riotservice "nexusiq/fetcher/services/riot"
	summonerservice "nexusiq/fetcher/services/summoner"
	"nexusiq/pkg/database/models"
	"nexusiq/pkg/logger"
	"nexusiq/pkg/messages"
	"nexusiq/pkg/regions"
	queuevalues "nexusiq/pkg/riotvalues/queue"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Header carrying the id of each request.
const RequestIdHeader = "x-request-id"

// SummonerFinder is the service behind the gRPC methods.
type SummonerFinder interface {
	FindOrRefresh(ctx context.Context, gameName string, tagLine string) (*summonerservice.Summoner, error)
	RefreshMatchHistory(ctx context.Context, puuid string, count int) (matchservice.Counts, error)
	GetMatches(ctx context.Context, puuid string, count int) ([]models.MatchInfo, error)
}

// Server definition.
type Server struct {
	service SummonerFinder
	logger  *logger.Logger
}

// NewServer creates the fetcher server.
func NewServer(service SummonerFinder, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{service: service, logger: log}
}

// NewGRPCServer creates the grpc server with the fetcher and the health services registered.
func NewGRPCServer(srv *Server) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(srv.requestIdInterceptor))
	RegisterFetcherServer(grpcServer, srv)

	// Register the health check.
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return grpcServer, healthServer
}

type requestIdKey struct{}

// Tag each call with a id, returned to the caller and present in the logs.
func (s *Server) requestIdInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	requestId := uuid.NewString()
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIdHeader); len(ids) > 0 && ids[0] != "" {
			requestId = ids[0]
		}
	}

	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIdHeader, requestId))

	start := time.Now()
	resp, err := handler(context.WithValue(ctx, requestIdKey{}, requestId), req)

	log := s.logger.With("request_id", requestId)
	if err != nil {
		log.Warnf("%s failed after %s: %v", info.FullMethod, time.Since(start), err)
	} else {
		log.Infof("%s done in %s", info.FullMethod, time.Since(start))
	}

	return resp, err
}

// Returns the logger of the request.
func (s *Server) requestLogger(ctx context.Context) *logger.Logger {
	if requestId, ok := ctx.Value(requestIdKey{}).(string); ok {
		return s.logger.With("request_id", requestId)
	}
	return s.logger
}

// stringField reads a required string field of the request.
func stringField(req *structpb.Struct, name string) (string, error) {
	value, ok := req.GetFields()[name]
	if !ok || value.GetStringValue() == "" {
		return "", status.Errorf(codes.InvalidArgument, messages.MissingField, name)
	}
	return value.GetStringValue(), nil
}

// GetSummoner returns the cached player, refreshing it when stale.
// Request: {gameName, tagLine}.
// Response: {puuid, gameName, tagLine, region, profileIcon, summonerLevel, revisionDate, lastSyncedAt, refreshed, ratings[]}.
func (s *Server) GetSummoner(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gameName, err := stringField(req, "gameName")
	if err != nil {
		return nil, err
	}
	tagLine, err := stringField(req, "tagLine")
	if err != nil {
		return nil, err
	}

	summoner, err := s.service.FindOrRefresh(ctx, gameName, tagLine)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := summonerToStruct(summoner)
	if err != nil {
		s.requestLogger(ctx).Errorf("Couldn't encode the summoner %s: %v", summoner.Player.Puuid, err)
		return nil, status.Error(codes.Internal, requests.MessageUnavailable)
	}
	return resp, nil
}

// RefreshMatchHistory ingests the latest matches of a player, resolving it upstream when not cached.
// Request: {puuid, count?}.
// Response: {processed, skipped, errors}.
func (s *Server) RefreshMatchHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	puuid, err := stringField(req, "puuid")
	if err != nil {
		return nil, err
	}

	counts, err := s.service.RefreshMatchHistory(ctx, puuid, countField(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"processed": counts.Processed,
		"skipped":   counts.Skipped,
		"errors":    counts.Errors,
	})
}

// GetMatches returns the stored matches of a player, most recent first.
// Request: {puuid, count?}.
// Response: {matches[]: {matchId, platformId, queueId, queueName, gameMode, gameVersion, gameStart, gameDuration, result}}.
func (s *Server) GetMatches(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	puuid, err := stringField(req, "puuid")
	if err != nil {
		return nil, err
	}

	matches, err := s.service.GetMatches(ctx, puuid, countField(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	list := make([]interface{}, 0, len(matches))
	for _, match := range matches {
		list = append(list, map[string]interface{}{
			"matchId":      match.MatchId,
			"platformId":   match.PlatformId,
			"queueId":      match.QueueId,
			"queueName":    queuevalues.QueueName(match.QueueId),
			"gameMode":     match.GameMode,
			"gameVersion":  match.GameVersion,
			"gameStart":    formatTime(match.GameStart),
			"gameDuration": match.GameDuration,
			"result":       match.EndOfGameResult,
		})
	}

	return structpb.NewStruct(map[string]interface{}{"matches": list})
}

// Optional count of the request, 0 when absent.
func countField(req *structpb.Struct) int {
	if value, ok := req.GetFields()["count"]; ok {
		return int(value.GetNumberValue())
	}
	return 0
}

// toStatus converts a service error into a gRPC status.
// Only user safe messages leave the server, the full error is logged.
func (s *Server) toStatus(ctx context.Context, err error) error {
	var validationErr *requests.ValidationError
	var rateLimitErr *requests.RateLimitError

	switch {
	case errors.As(err, &validationErr):
		return status.Errorf(codes.InvalidArgument, messages.InvalidRequest, requests.PublicMessage(err))
	case errors.Is(err, regions.ErrUnknownRoutingCode):
		return status.Errorf(codes.InvalidArgument, messages.InvalidRequest, "unknown region")
	case errors.Is(err, riotservice.ErrSummonerNotFound), requests.IsNotFound(err):
		return status.Error(codes.NotFound, messages.SummonerNotFound)
	case errors.Is(err, summonerservice.ErrRefreshInProgress):
		return status.Error(codes.Aborted, messages.OperationInProgress)
	case errors.As(err, &rateLimitErr):
		st := status.New(codes.ResourceExhausted, requests.MessageRateLimited)
		if rateLimitErr.HasRetryAfter {
			_ = grpc.SetTrailer(ctx, metadata.Pairs("retry-after", fmt.Sprintf("%d", int(rateLimitErr.RetryAfter.Seconds()))))
		}
		return st.Err()
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, messages.RequestCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, requests.MessageUnavailable)
	}

	s.requestLogger(ctx).Errorf("Request failed: %v", err)
	return status.Error(codes.Unavailable, requests.MessageUnavailable)
}

// summonerToStruct encodes the summoner response.
func summonerToStruct(summoner *summonerservice.Summoner) (*structpb.Struct, error) {
	player := summoner.Player

	ratings := make([]interface{}, 0, len(summoner.Ratings))
	for _, rating := range summoner.Ratings {
		ratings = append(ratings, map[string]interface{}{
			"queue":        rating.Queue,
			"leagueId":     rating.LeagueId,
			"tier":         rating.Tier,
			"rank":         rating.Rank,
			"leaguePoints": rating.LeaguePoints,
			"wins":         rating.Wins,
			"losses":       rating.Losses,
			"numericScore": rating.NumericScore,
			"hotStreak":    rating.HotStreak,
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"puuid":         player.Puuid,
		"gameName":      player.RiotIdGameName,
		"tagLine":       player.RiotIdTagline,
		"region":        player.Region,
		"profileIcon":   player.ProfileIcon,
		"summonerLevel": player.SummonerLevel,
		"revisionDate":  formatTime(player.RevisionDate),
		"lastSyncedAt":  formatTime(player.LastSyncedAt),
		"refreshed":     summoner.Refreshed,
		"ratings":       ratings,
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
