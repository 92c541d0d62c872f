package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/patta/internal/config"
	"github.com/example/patta/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var backend, sqlitePath, redisURL string
	var enforce, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write .patta/config.json in the current directory",
		Long: `Write a default .patta/config.json in the current directory and, for the
sqlite backend, create the database with its schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(config.Path(dir)); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.Path(dir))
			}

			cfg := config.Default()
			cfg.Store.Backend = backend
			cfg.Store.SQLitePath = sqlitePath
			cfg.Store.RedisURL = redisURL
			cfg.Workflow.EnforceTransitions = enforce
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Store.Backend == config.BackendSQLite {
				conn, err := db.Open(cfg.Store.SQLitePath)
				if err != nil {
					return fmt.Errorf("failed to initialize database: %w", err)
				}
				conn.Close()
				fmt.Fprintln(out, "✓ Database initialized")
			}

			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Config written to %s\n", config.Path(dir))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  patta record create RC-001 --data '{"ownerName":"..."}'`)
			fmt.Fprintln(out, "  patta list")

			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", config.BackendSQLite, "Record store backend (memory|sqlite|redis)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", "", "sqlite database path (default ~/.patta/patta.db)")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "redis URL for the redis backend")
	cmd.Flags().BoolVar(&enforce, "enforce-transitions", false, "Reject status moves not in the transition table")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}
