package main

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ripplehq/ripple/internal/cache"
	"github.com/ripplehq/ripple/internal/config"
	"github.com/ripplehq/ripple/internal/feed"
	"github.com/ripplehq/ripple/internal/handlers"
	"github.com/ripplehq/ripple/internal/logging"
	"github.com/ripplehq/ripple/internal/monitoring"
	"github.com/ripplehq/ripple/internal/server"
	"github.com/ripplehq/ripple/internal/store"
	"github.com/ripplehq/ripple/internal/version"
)

func main() {
	logger := logging.NewLoggerWithService("ripple")

	config.LoadEnv(logger)
	cfg := config.Load()

	logger.Info("Starting Ripple feed service")

	ctx := context.Background()

	// Document store is required: the feed cannot be served without it.
	mongoClient, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	posts := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// The cache is not: a missing Redis only degrades every read to a miss.
	var redisClient goredis.UniversalClient
	if client, err := cache.NewClientFromURL(ctx, cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("Redis unavailable, serving without cache")
	} else {
		redisClient = client
		defer func() { _ = client.Close() }()
	}

	gateway := cache.NewRawSetGateway(redisClient, posts, logger, cache.Options{
		FeedTTL:     cfg.FeedCacheTTL,
		CategoryTTL: cfg.CategoryCacheTTL,
		FetchLimit:  cfg.RawFetchLimit,
	})
	feedService := feed.NewService(gateway, posts, logger)

	healthChecker := monitoring.NewHealthChecker("ripple", version.Version)
	healthChecker.AddCheck("mongo", monitoring.MongoHealthCheck(mongoClient))
	healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MONGO_URI": cfg.MongoURI,
	}))

	metricsCollector := monitoring.NewMetricsCollector("ripple", version.Version, version.GitCommit)
	feedMetrics := handlers.NewMetrics(metricsCollector)

	router := server.SetupServiceRouter(logger, "ripple", healthChecker, metricsCollector)
	handlers.New(feedService, logger, feedMetrics).RegisterRoutes(router)

	serverConfig := server.DefaultConfig("ripple", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
