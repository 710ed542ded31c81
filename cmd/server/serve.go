package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voting-platform/internal/bootstrap"
)

func serveRun(cmd *cobra.Command, _ []string) error {
	log := bootstrap.NewLogger(cfg)

	app, err := bootstrap.NewAppWithConfig(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(cmd.Context()); err != nil {
		app.Shutdown()
		return err
	}

	// 设置优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received...")

	app.Shutdown()
	return nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the voting web server",
		RunE:  serveRun,
	}
}
