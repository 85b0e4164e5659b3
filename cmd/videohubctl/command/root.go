package command

// root.go defines the videohubctl root command and its shared setup.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"videohub/database"
	"videohub/internal/config"
	"videohub/internal/logging"
)

var (
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "videohubctl",
	Short: "videohubctl - VideoHub administration",
	Long: `videohubctl runs maintenance tasks against the VideoHub database:
- migrate: create or update the schema
- createsuperuser: add an active administrator account

Configuration is read from the environment and an optional .env file,
the same way the API server reads it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		failure.Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperuserCmd)
}

// openDB loads config and connects, the way every subcommand needs it
func openDB() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, logger, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db, logger); err != nil {
			return err
		}
		success.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date.")
		return nil
	},
}
