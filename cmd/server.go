package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/itemo/models"
	"github.com/itemo/server"
	"github.com/itemo/store"
)

var (
	serverCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		RunE:  runServerCmd,
	}
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServerCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close(db)

	model, err := models.New(cfg.Model)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(server.ServerConfigs(cfg.Server), server.NewHandler(cfg, db, model))
	return srv.Run(ctx)
}
