package command

// root.go defines the root command for the libraryhub admin CLI.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"libraryhub/database"
	"libraryhub/internal/config"
)

var databaseURL string // overrides DATABASE_URL when set

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libraryhub",
	Short: "libraryhub - library catalog administration",
	Long: `libraryhub runs maintenance jobs against the catalog database:
- apply the schema
- flag loans past their due date as overdue (suitable for cron)
- print the dashboard counters`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd, sweepCmd, statsCmd)
}

// openDB loads config and connects; callers must close the returned db
func openDB() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	logger := cfg.NewLogger()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
