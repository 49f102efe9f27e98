package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjenkins/fieldservice/internal/config"
	"github.com/jjenkins/fieldservice/internal/logging"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "fieldservice"

var (
	configPath   string
	storeBackend string
)

var rootCmd = &cobra.Command{
	Use:   "fieldservice",
	Short: "Territory and field service coordination",
	Long: `fieldservice tracks territories through their assignment lifecycle,
schedules field service meetings and keeps the congregation notice board.

Data lives in one of three backends selected by configuration: process
memory, redis or postgres.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml or .toml); defaults to $CONFIG_FILE")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Storage backend: memory, redis or postgres")
}

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	svc    *service.Services
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := store.New(repo, logger)
	return &env{
		cfg:    cfg,
		logger: logger,
		store:  s,
		svc: service.New(s, service.Options{
			Now:      time.Now,
			Location: loc,
		}),
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Repository, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := store.NewRedisClient(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
		return store.NewRedisRepository(client, cfg.Redis.KeyPrefix), nil

	case config.BackendPostgres:
		db, err := store.NewDB(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo := store.NewPostgresRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		return repo, nil

	default:
		logger.Warn("using in-memory store, data will not survive a restart")
		return store.NewMemoryRepository(), nil
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
