package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/mealpersona-backend/internal/app"
	"github.com/yungbote/mealpersona-backend/internal/data/db"
	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

func main() {
	log, err := app.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	rootCmd := &cobra.Command{
		Use:           "mealpersona",
		Short:         "Meal tracking challenges and food personas.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}
	rootCmd.AddCommand(
		newServeCmd(log),
		newMigrateCmd(log),
		newSeedTagsCmd(log),
		newCreateAdminCmd(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("Command failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func newServeCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}
}

func serve(ctx context.Context, log *logger.Logger) error {
	a, err := app.New(ctx, log)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return a.Run(ctx)
}

func newMigrateCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pg, err := app.Bootstrap(log)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := db.AutoMigrateAll(pg.DB()); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	}
}

func newSeedTagsCmd(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-tags",
		Short: "Insert the default tag catalogue (existing slugs are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pg, err := app.Bootstrap(log)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := db.AutoMigrateAll(pg.DB()); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			n, err := db.SeedTags(cmd.Context(), pg.DB())
			if err != nil {
				return fmt.Errorf("seed tags: %w", err)
			}
			log.Info("Tag catalogue seeded", "inserted", n, "catalogue_size", len(db.DefaultTags()))
			return nil
		},
	}
}

func newCreateAdminCmd(log *logger.Logger) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			cfg, pg, err := app.Bootstrap(log)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := db.AutoMigrateAll(pg.DB()); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			set := repos.NewSet(pg.DB(), log)
			auth := services.NewAdminAuthService(pg.DB(), log, set.Admins, set.Sessions, set.Activities, nil, services.SystemClock(cfg.Timezone))
			admin, err := auth.CreateAdmin(dbctx.New(cmd.Context()), email, password, name)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Info("Admin created", "admin_id", admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}
