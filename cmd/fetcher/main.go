package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexusiq/fetcher/data"
	"nexusiq/fetcher/grpcserver"
	"nexusiq/fetcher/repositories"
	"nexusiq/fetcher/requests"
	matchservice "nexusiq/fetcher/services/match"
	playerservice "nexusiq/fetcher/services/player"
	ratingservice "nexusiq/fetcher/services/rating"
	riotservice "nexusiq/fetcher/services/riot"
	summonerservice "nexusiq/fetcher/services/summoner"
	"nexusiq/pkg/config"
	"nexusiq/pkg/database"
	"nexusiq/pkg/logger"
	"nexusiq/pkg/redis"
	"nexusiq/pkg/regions"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

// How often the log file is shipped to the bucket.
const logUploadInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Couldn't load the configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Couldn't create the logger: %v", err)
	}
	defer appLogger.Close()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Errorf("Fetcher stopped: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Infof("Starting the fetcher...")

	db, err := database.NewConnection(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := migrate(db, cfg, appLogger); err != nil {
		return err
	}

	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	var locker summonerservice.Locker = redisClient
	if err := redisClient.Ping(ctx); err != nil {
		// The refresh still works, only the deduplication between instances is lost.
		appLogger.Warnf("Redis unavailable, refresh locks disabled: %v", err)
		locker = nil
	}

	accountRegion, err := regions.ParseRegion(cfg.Riot.DefaultRegion)
	if err != nil {
		return fmt.Errorf("invalid RIOT_DEFAULT_REGION: %w", err)
	}

	// One client and pool for every upstream call.
	client := requests.NewClient(requests.ClientConfig{
		ApiKey:          cfg.Riot.ApiKey,
		Timeout:         cfg.Riot.Timeout,
		BaseURLTemplate: cfg.Riot.BaseURLTemplate,
	}, &http.Client{}, requests.NewRiotRateLimiter(cfg.Riot.ShortLimit, cfg.Riot.LongLimit), appLogger)

	facade := riotservice.NewFacade(data.NewMainFetcher(client, accountRegion), appLogger, riotservice.DefaultRegionCacheTTL)
	defer facade.Close()

	players := playerservice.NewPlayerService(repositories.NewPlayerRepository(db))
	summoners := summonerservice.NewSummonerService(&summonerservice.SummonerServiceDeps{
		DB:            db,
		Fetcher:       facade,
		Locker:        locker,
		Logger:        appLogger,
		TTL:           cfg.SummonerTTL,
		PlayerService: players,
		RatingService: ratingservice.NewRatingService(repositories.NewRatingRepository(db)),
		MatchService:  matchservice.NewMatchService(db, repositories.NewMatchRepository(db), players, appLogger),
	})

	listener, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		return fmt.Errorf("couldn't start the tcp server: %w", err)
	}

	grpcServer, healthServer := grpcserver.NewGRPCServer(grpcserver.NewServer(summoners, appLogger))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Infof("Running gRPC server on :%s", cfg.GrpcPort)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("failed to serve grpc: %w", err)
		}
		return nil
	})

	if cfg.HasBucket() {
		g.Go(func() error {
			appLogger.ShipToBucket(gCtx, cfg.Bucket, "fetcher", logUploadInterval)
			return nil
		})
	}

	// Handle the shutdown of the whole server.
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Infof("Shutting down...")
		healthServer.SetServingStatus(grpcserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

// Apply the schema, through the versioned migrations when enabled.
func migrate(db *gorm.DB, cfg *config.Config, appLogger *logger.Logger) error {
	if !cfg.Database.MigrationsEnabled {
		appLogger.Infof("Migrations disabled, auto migrating the models")
		return database.AutoMigrate(db)
	}

	sqlDb, err := db.DB()
	if err != nil {
		return err
	}
	return database.RunMigrations(sqlDb, appLogger)
}
