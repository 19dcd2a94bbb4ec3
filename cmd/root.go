package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/config"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "storytutor",
	Short: "Interactive storytelling tutor",
	Long:  "Story Tutor: read short three-scene stories, answer a quiz about each, and build a reading streak.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReader(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TUTOR_DB env var)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres (overrides TUTOR_DB_DRIVER)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.DBDriver = d
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBDSN = p
	}
	return cfg, nil
}

// openStore resolves the database location (--db flag first, then
// TUTOR_DB_DSN, then the default XDG path for SQLite), opens it and seeds
// the built-in story library.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store.Store, error) {
	driver := store.Driver(cfg.DBDriver)
	dsn := cfg.DBDSN
	switch {
	case dsn == "" && driver == store.DriverPostgres:
		return nil, fmt.Errorf("postgres needs TUTOR_DB_DSN or --db")
	case dsn == "":
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dsn = p
	case driver == store.DriverSQLite:
		if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}

	st, err := store.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	stories, err := catalog.Builtin()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load story library: %w", err)
	}
	if err := st.StoryRepo().SeedStories(ctx, stories); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed stories: %w", err)
	}
	log.Debug("store ready", "driver", driver, "stories", len(stories))
	return st, nil
}

// quietLogger is used by commands that own the terminal.
func quietLogger(cfg config.Config) *slog.Logger {
	if cfg.LogLevel > slog.LevelDebug {
		cfg.LogLevel = slog.LevelError
	}
	return cfg.Logger(os.Stderr)
}
