package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hidden-market/internal/config"
	"hidden-market/internal/feed"
	"hidden-market/internal/livepush"
	market "hidden-market/internal/marketService"
	"hidden-market/internal/objectstore"
	"hidden-market/internal/repository"
	"hidden-market/internal/server"
	"hidden-market/internal/session"
	"hidden-market/services/market/handler"
	"hidden-market/utils"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	seedOnBoot bool
)

var rootCmd = &cobra.Command{
	Use:   "hidden-market",
	Short: "Live auction marketplace server",
	Long: `hidden-market serves the auction marketplace: listings, bids, buy-now,
seller chat and live notifications, kept in sync across every open tab.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample listings into the configured store",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "hidden-market.yaml", "path to the YAML config file")
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&seedOnBoot, "seed", true, "insert sample listings when the store is in memory")
	}
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		utils.Fatal("hidden-market exited", map[string]any{"error": err.Error()})
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	utils.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// openStore returns the configured store and a func releasing it
func openStore(cfg *config.Config) (repository.MarketStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		repo, err := repository.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return repository.NewMemoryRepo(), func() error { return nil }, nil
	}
}

func openBroker(cfg *config.Config) (feed.Broker, error) {
	switch cfg.Feed.Driver {
	case config.FeedAMQP:
		return feed.DialAMQP(cfg.Feed.AMQPURL, cfg.Feed.Exchange)
	default:
		return feed.NewMemoryBroker(), nil
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.CheckServe(); err != nil {
		return err
	}
	if cfg.UsesDefaultSecret() {
		utils.Warn("Session tokens are signed with the built-in secret; set HM_SESSION_SECRET", nil)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if seedOnBoot && cfg.Store.Driver == config.StoreMemory {
		if err := prepopulateListings(ctx, base, time.Now()); err != nil {
			return err
		}
	}

	broker, err := openBroker(cfg)
	if err != nil {
		return err
	}
	defer broker.Close()

	bucket, err := objectstore.NewDirBucket(cfg.Objects.Dir, cfg.Objects.PublicURL)
	if err != nil {
		return err
	}

	store := repository.NewPublishing(base, broker)
	marketSvc := market.NewMarketService(store, bucket)

	var sessions *session.Manager
	hub := livepush.NewHub(func(sessionID string) int {
		if c, ok := sessions.Lookup(sessionID); ok {
			return c.Notifications.Len()
		}
		return 0
	})
	sessions = session.NewManager(ctx, []byte(cfg.Session.Secret), store, broker, hub)

	marketHandler := handler.NewMarketHandler(marketSvc, sessions, hub)
	router := server.SetupRouter(marketHandler, sessions, cfg.Objects.Dir, cfg.Objects.PublicURL)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("Starting auction server", map[string]any{
			"addr":  cfg.Addr(),
			"store": cfg.Store.Driver,
			"feed":  cfg.Feed.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sessions.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	utils.Info("Server stopped", map[string]any{"active_sessions": sessions.Active()})
	return err
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver == config.StoreMemory {
		return errors.New("seed: the memory store does not outlive this command; configure store.driver: sqlite")
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return prepopulateListings(cmd.Context(), store, time.Now())
}
