// cmd/matchctl/migrate.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"influencer-matching/internal/common/config"
	"influencer-matching/internal/common/database"
	"influencer-matching/internal/common/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending profile schema migrations to PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			log := logger.New(level, "console")
			defer log.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Debug("connecting to postgres",
				zap.String("host", cfg.Database.Postgres.Host),
				zap.String("database", cfg.Database.Postgres.Database),
			)

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			applied, err := database.Migrate(ctx, pg.DB)
			if err != nil {
				log.Error("migration failed", zap.Error(err))
				return err
			}
			log.Info("migrations finished", zap.Int64s("applied", applied))
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied migrations: %v\n", applied)
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Load()
}
