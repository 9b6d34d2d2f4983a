package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"versequest/internal/config"
	"versequest/internal/database"
	"versequest/internal/logger"
	"versequest/internal/service"
	"versequest/migrations"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "backup",
		Short: "Export and import the VerseQuest database as JSON",
		Long: `Export and import the VerseQuest database as JSON.

The database is chosen with the same environment variables as the server:
  DB_TYPE        sqlite, postgres or mysql (default: sqlite)
  DB_PATH        SQLite database path (default: ./versequest.db)
  DATABASE_URL   PostgreSQL or MySQL connection URL`,
		SilenceUsage: true,
	}
	root.AddCommand(newExportCmd(), newImportCmd())
	return root
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackupService(func(backup *service.BackupService, log *logger.Logger) error {
				if output == "" {
					output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
				}
				if dir := filepath.Dir(output); dir != "." && dir != "" {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("failed to create output directory: %w", err)
					}
				}

				log.Info("exporting database", "path", output)
				if err := backup.Export(output); err != nil {
					return err
				}

				info, err := os.Stat(output)
				if err != nil {
					return err
				}
				log.Info("export complete", "path", output, "bytes", info.Size())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		input     string
		clearData bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup, merging with existing rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			return withBackupService(func(backup *service.BackupService, log *logger.Logger) error {
				if clearData {
					if !yes && !confirm(cmd, "WARNING: this deletes all existing data. Type 'yes' to confirm: ") {
						log.Info("import cancelled")
						return nil
					}
					if err := backup.Clear(); err != nil {
						return err
					}
				}

				log.Info("importing database", "path", input, "clear", clearData)
				if err := backup.Import(input); err != nil {
					return err
				}
				log.Info("import complete")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "backup file to import")
	cmd.Flags().BoolVar(&clearData, "clear", false, "delete existing data before importing (destructive)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}

// withBackupService opens the configured database, brings its schema up to
// date and hands a backup service to fn.
func withBackupService(fn func(*service.BackupService, *logger.Logger) error) error {
	cfg := config.Load()

	log, err := logger.New(cfg.Environment, cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if _, err := db.RunMigrations(migrations.Source(cfg.MigrationsPath)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return fn(service.NewBackupService(db, log), log)
}
