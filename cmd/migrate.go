package cmd

import (
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/qrave1/MemStudy/internal/application/config"
	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/infra/adapters/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <command> [args]",
	Short: "Apply or inspect the users, folders and flashcards schema",
	Long: `Runs a goose command against the embedded schema of MemStudy.
The database is taken from POSTGRES_URL or the POSTGRES_* variables.`,
	Example: `  memstudy migrate up
  memstudy migrate down
  memstudy migrate up-to 2
  memstudy migrate status`,
	ValidArgs: []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version"},
	Args:      cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		goose.SetBaseFS(migrations.MigrationsFS)

		db, err := goose.OpenDBWithDriver("pgx", cfg.Postgres.DSN())
		if err != nil {
			return fmt.Errorf("open memstudy database: %w", err)
		}

		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("close memstudy database", slog.Any(constant.Error, err))
			}
		}()

		if err := goose.RunContext(cmd.Context(), args[0], db, ".", args[1:]...); err != nil {
			return fmt.Errorf("migrate %s: %w", args[0], err)
		}

		slog.Info("schema migration finished", slog.String(constant.Command, args[0]))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
