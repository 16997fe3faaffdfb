package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/migrations"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	"github.com/CoderHarshaVardhan/playX/internal/seed"
	"github.com/CoderHarshaVardhan/playX/pkg/config"
	"github.com/CoderHarshaVardhan/playX/pkg/database"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

type rootOptions struct {
	Verbose bool
}

// opener is swapped in tests to avoid a live database.
type opener func(ctx context.Context, opts *rootOptions) (*gorm.DB, error)

func newRootCommand() *cobra.Command {
	return buildRootCommand(openDatabase)
}

func buildRootCommand(open opener) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "playX schema migrations and sample data",
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log SQL statements")

	cmd.AddCommand(newUpCommand(opts, open))
	cmd.AddCommand(newSeedCommand(opts, open))
	return cmd
}

func newUpCommand(opts *rootOptions, open opener) *cobra.Command {
	return &cobra.Command{
		Use:          "up",
		Short:        "Create or update tables and indexes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := migrations.Run(cmd.Context(), db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations completed")
			return nil
		},
	}
}

func newSeedCommand(opts *rootOptions, open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample data",
	}

	var destroy bool
	venues := &cobra.Command{
		Use:          "venues",
		Short:        "Replace all venues with the Hyderabad sample set",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return seedVenues(cmd.Context(), repository.NewVenueRepository(db), destroy, cmd.OutOrStdout())
		},
	}
	venues.Flags().BoolVarP(&destroy, "destroy", "d", false, "only delete existing venues")

	cmd.AddCommand(venues)
	return cmd
}

func seedVenues(ctx context.Context, repo repository.VenueRepository, destroy bool, out io.Writer) error {
	if destroy {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "venues destroyed: %d\n", n)
		return nil
	}

	vs, err := seed.Venues()
	if err != nil {
		return err
	}
	if err := repo.ReplaceAll(ctx, vs); err != nil {
		return err
	}
	fmt.Fprintf(out, "venues imported: %d\n", len(vs))
	return nil
}

func openDatabase(ctx context.Context, opts *rootOptions) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.Options{
		Verbose:    opts.Verbose,
		MaxRetries: 3,
	})
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}
	return db, nil
}
