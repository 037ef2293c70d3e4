package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/config"
	"github.com/lightspun/lightspun/internal/logging"
	"github.com/lightspun/lightspun/internal/search"
	"github.com/lightspun/lightspun/internal/seed"
	"github.com/lightspun/lightspun/internal/service"
	"github.com/lightspun/lightspun/internal/store"
	"github.com/lightspun/lightspun/internal/web"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "lightspun",
		Short: "Lightspun address backend",
		Long:  `Address normalization, fuzzy search, and CRUD over states, municipalities, and addresses`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createInitDBCmd())
	rootCmd.AddCommand(createLoadCmd())
	rootCmd.AddCommand(createStandardizeCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// app bundles everything a subcommand needs.
type app struct {
	cfg            *config.Config
	log            *zap.Logger
	store          store.Store
	pg             *store.Postgres
	addresses      *service.AddressService
	states         *service.StateService
	municipalities *service.MunicipalityService
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, log: logger}
	if cfg.Database.DSN != "" {
		pg, err := store.OpenPostgres(cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.pg = pg
		a.store = pg
	} else {
		logger.Warn("no database configured, using in-memory store")
		a.store = store.NewMemory()
	}

	engine := search.NewEngine(a.store, search.Config{
		MinSimilarity: cfg.Search.MinSimilarity,
		SoundexBoost:  cfg.Search.SoundexBoost,
		Limit:         cfg.Search.DefaultLimit,
		Strategy:      search.StrategyCombined,
	}, logger)
	a.addresses = service.NewAddressService(a.store, engine, logger)
	a.states = service.NewStateService(a.store, logger)
	a.municipalities = service.NewMunicipalityService(a.store, logger)
	return a, nil
}

func (a *app) close() {
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.log.Error("close database", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := buildApp()
			if err != nil {
				log.Fatalf("Failed to start: %v", err)
			}
			defer a.close()

			srv := web.NewServer(a.cfg.Server, a.addresses, a.states, a.municipalities, a.log)
			if err := srv.Start(); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		},
	}
}

func createInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create tables, extensions, and indexes",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := buildApp()
			if err != nil {
				log.Fatalf("Failed to start: %v", err)
			}
			defer a.close()

			if a.pg == nil {
				log.Fatal("init-db requires a configured database")
			}
			if err := a.pg.InitSchema(cmd.Context()); err != nil {
				log.Fatalf("Failed to initialize schema: %v", err)
			}
			fmt.Println("Schema initialized")
		},
	}
}

func createLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [filename]",
		Short: "Load seed data from a JSON fixture",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := buildApp()
			if err != nil {
				log.Fatalf("Failed to start: %v", err)
			}
			defer a.close()

			loader := &seed.Loader{
				States:         a.states,
				Municipalities: a.municipalities,
				Addresses:      a.addresses,
				Log:            a.log,
			}
			res, err := loader.LoadFile(cmd.Context(), args[0])
			if err != nil {
				log.Fatalf("Failed to load seed data: %v", err)
			}
			fmt.Printf("Loaded %d states, %d municipalities, %d addresses (%d skipped)\n",
				res.States, res.Municipalities, res.Addresses, res.Skipped)
		},
	}
}

func createStandardizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standardize",
		Short: "Re-standardize street names of stored addresses",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := buildApp()
			if err != nil {
				log.Fatalf("Failed to start: %v", err)
			}
			defer a.close()

			updated, err := restandardize(cmd.Context(), a.addresses)
			if err != nil {
				log.Fatalf("Failed to standardize: %v", err)
			}
			fmt.Printf("Updated %d addresses\n", updated)
		},
	}
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := buildApp()
			if err != nil {
				log.Fatalf("Failed to start: %v", err)
			}
			defer a.close()

			if a.pg == nil {
				fmt.Println("No database configured; in-memory store active")
				return
			}
			if err := a.pg.DB().PingContext(cmd.Context()); err != nil {
				log.Fatalf("Database ping failed: %v", err)
			}
			count, err := a.store.CountAddresses(cmd.Context())
			if err != nil {
				log.Fatalf("Failed to count addresses: %v", err)
			}
			fmt.Println("Database connection successful!")
			fmt.Printf("Addresses loaded: %d\n", count)
		},
	}
}
