package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokestory-api/internal/config"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	v1 "github.com/KirkDiggler/pokestory-api/internal/handlers/pokestory/v1"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/favorites"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/savedstories"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/story"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
	favoritesrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/favorites"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough"
	rosterrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/roster"
	savedstoriesrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories"
)

var (
	grpcPort    int
	metricsPort int
	logLevel    string
	skipPing    bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the PokeStory gRPC server with Redis storage, PokéAPI and the narrative generator.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().IntVar(&metricsPort, "metrics-port", 9090, "Prometheus metrics port (0 disables)")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serverCmd.Flags().BoolVar(&skipPing, "skip-ai-ping", false, "Skip the narrative generator connectivity check at startup")
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := setupLogger(logLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("configuration loaded", "config", cfg)

	redisClient, err := redisclient.Open(ctx, &redisclient.Config{
		URL:      cfg.RedisURL,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to open redis: %w", err)
	}
	defer func() {
		_ = redisClient.Close()
	}()

	handler, err := buildHandler(ctx, cfg, redisClient)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logger := grpc_logging.LoggerFunc(logFunc)
	recovery := grpc_recovery.WithRecoveryHandlerContext(recoverFunc)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(recovery),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(recovery),
		),
	)

	v1.RegisterPokeStoryServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 2)

	var metricsServer *http.Server
	if metricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", metricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("metrics server starting", "port", metricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	go func() {
		slog.Info("gRPC server starting", "port", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gRPC server")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if metricsServer != nil {
			_ = metricsServer.Shutdown(shutdownCtx)
		}

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// buildHandler wires repositories, clients and orchestrators into the gRPC handler
func buildHandler(ctx context.Context, cfg *config.Config, redisClient redisclient.Client) (*v1.Handler, error) {
	rosterRepo, err := rosterrepo.NewRedis(&rosterrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster repository: %w", err)
	}
	favoritesRepo, err := favoritesrepo.NewRedis(&favoritesrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create favorites repository: %w", err)
	}
	savedStoriesRepo, err := savedstoriesrepo.NewRedis(&savedstoriesrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create saved stories repository: %w", err)
	}

	var playthroughRepo playthrough.Repository
	switch cfg.PlaythroughStore {
	case config.PlaythroughStoreMemory:
		playthroughRepo = playthrough.NewInMemory()
	default:
		playthroughRepo, err = playthrough.NewRedis(&playthrough.RedisConfig{
			Client: redisClient,
			TTL:    cfg.PlaythroughTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create playthrough repository: %w", err)
		}
	}

	cache, err := pokeapi.NewRedisCache(&pokeapi.RedisCacheConfig{
		Client: redisClient,
		TTL:    cfg.PokeAPICacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create species cache: %w", err)
	}
	species, err := pokeapi.New(&pokeapi.Config{
		BaseURL:    cfg.PokeAPIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.PokeAPITimeout},
		Roller:     dice.DefaultRoller,
		Cache:      cache,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create species client: %w", err)
	}

	catalog, err := narrative.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load narrative catalog: %w", err)
	}
	generator, err := narrative.NewOpenAI(&narrative.OpenAIConfig{
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		Model:       cfg.AIModel,
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
		Catalog:     catalog,
		HTTPClient:  &http.Client{Timeout: cfg.AITimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create narrative generator: %w", err)
	}
	if !skipPing {
		// Stories still run on fallback segments when the model is down
		if err := generator.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "narrative generator is not reachable", "error", err)
		}
	}

	rosterService, err := roster.NewOrchestrator(&roster.Config{
		Repository:  rosterRepo,
		IDGenerator: idgen.NewUUID("companion"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster orchestrator: %w", err)
	}

	eventBus := events.NewBus()
	subscribeStoryEvents(eventBus)

	storyService, err := story.NewOrchestrator(&story.Config{
		Roster:       rosterService,
		Species:      species,
		Generator:    generator,
		Catalog:      catalog,
		Playthroughs: playthroughRepo,
		SavedStories: savedStoriesRepo,
		IDGenerator:  idgen.NewUUID("story"),
		EventBus:     eventBus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create story orchestrator: %w", err)
	}

	favoritesService, err := favorites.NewOrchestrator(&favorites.Config{
		Repository: favoritesRepo,
		Species:    species,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create favorites orchestrator: %w", err)
	}

	savedStoriesService, err := savedstories.NewOrchestrator(&savedstories.Config{
		Repository: savedStoriesRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create saved stories orchestrator: %w", err)
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		Roster:       rosterService,
		Story:        storyService,
		Favorites:    favoritesService,
		SavedStories: savedStoriesService,
		Species:      species,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}

	return handler, nil
}

// logFunc bridges the interceptor levels onto slog; both use the same numeric scale
func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}

func recoverFunc(ctx context.Context, p any) error {
	slog.ErrorContext(ctx, "panic in gRPC handler", "panic", p)
	return errors.ToGRPCError(errors.Internal("internal error"))
}
