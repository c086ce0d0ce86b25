package main

import (
	"context"
	"fmt"
	"os"

	"meetings-api/config"
	"meetings-api/internal/seed"
	"meetings-api/pkg/database"
	"meetings-api/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Meetings API database tool",
		Long: `Apply, roll back and inspect schema migrations for the configured
database (DB_DRIVER), and load demo data.`,
		SilenceUsage: true,
	}

	root.AddCommand(upCmd(), downCmd(), statusCmd(), seedCmd())
	return root
}

// withDB loads configuration, connects, and runs fn with the open database.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *database.DB, l *logger.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	mode := logger.DevelopmentMode
	if cfg.IsRelease() {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	defer l.Sync()

	ctx := cmd.Context()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, l)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *database.DB, l *logger.Logger) error {
				applied, err := database.Migrate(ctx, db)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					l.Infof("Database is up to date")
					return nil
				}
				l.Infof("Applied migrations: %v", applied)
				return nil
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *database.DB, l *logger.Logger) error {
				version, err := database.Rollback(ctx, db)
				if err != nil {
					return err
				}
				l.Infof("Rolled back migration %d", version)
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show each migration and whether it is applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *database.DB, l *logger.Logger) error {
				states, err := database.MigrationStatus(ctx, db)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, s := range states {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(out, "%05d  %-8s  %s\n", s.Version, state, s.Path)
				}
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	cfg := seed.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with sample meetings",
		Long: `Create a demo user with sample meetings. Running it again for the
same username changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *database.DB, l *logger.Logger) error {
				res, err := seed.Run(ctx, db.DB, db.Dialect, cfg)
				if err != nil {
					return err
				}
				if res.UserCreated {
					l.Infof("Created user %q (id %d)", res.User.Username, res.User.ID)
				} else {
					l.Infof("User %q already exists (id %d)", res.User.Username, res.User.ID)
				}
				l.Infof("User owns %d meetings", len(res.Meetings))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.Username, "username", cfg.Username, "demo username")
	cmd.Flags().StringVar(&cfg.Password, "password", cfg.Password, "demo password")
	cmd.Flags().StringVar(&cfg.Email, "email", cfg.Email, "demo email")
	return cmd
}
