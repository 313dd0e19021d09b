package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/camp-directory/internal/config"
	"github.com/pkordes/camp-directory/internal/database"
	"github.com/pkordes/camp-directory/internal/geocode"
	"github.com/pkordes/camp-directory/internal/repo"
	"github.com/pkordes/camp-directory/internal/service"
)

// cli carries the state shared by every subcommand. The connect and
// geocoder hooks are swapped out in tests.
type cli struct {
	databaseURL string

	loadConfig func(databaseURL string) (config.Config, error)
	connect    func(ctx context.Context, dsn string) (repo.CampRepo, func(), error)
	geocoder   func(cfg config.Config) geocode.Geocoder

	cfg   config.Config
	store repo.CampRepo
	close func()
}

func newCLI() *cli {
	return &cli{
		loadConfig: config.LoadDatabase,
		connect:    connectPostgres,
		geocoder:   googleGeocoder,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "campctl",
		Short:        "Manage the camp directory from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(c.databaseURL)
			if err != nil {
				return err
			}
			store, closeFn, err := c.connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			c.cfg, c.store, c.close = cfg, store, closeFn
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "Postgres connection string (or set DATABASE_URL)")

	root.AddCommand(newListCmd(c), newImportCmd(c), newGeocodeMissingCmd(c))
	return root
}

// release closes the store opened by the root command, if any. Cobra skips
// post-run hooks when a command fails, so main calls this instead.
func (c *cli) release() {
	if c.close != nil {
		c.close()
		c.close = nil
	}
}

// campService wires the service the way the API server does, except that
// every lookup goes through the serialized geocoder.
func (c *cli) campService() *service.CampService {
	var bulk geocode.Geocoder
	if g := c.geocoder(c.cfg); g != nil {
		bulk = geocode.NewSerial(g, c.cfg.GeocodeDelay)
	}
	return service.NewCampService(c.store, bulk, bulk)
}

func connectPostgres(ctx context.Context, dsn string) (repo.CampRepo, func(), error) {
	pool, err := database.Open(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("campctl: %w", err)
	}
	return repo.NewCampRepo(pool), pool.Close, nil
}

func googleGeocoder(cfg config.Config) geocode.Geocoder {
	if cfg.GoogleMapsAPIKey == "" {
		return nil
	}
	return geocode.NewGoogleClient(cfg.GoogleMapsAPIKey, geocode.WithRegionSuffix(cfg.GeocodeRegionSuffix))
}
