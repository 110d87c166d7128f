package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aqua777/go-ragpipe/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	srv := server.New(d.pipeline, server.Info{
		Environment:  d.cfg.App.Environment,
		ChatModel:    d.cfg.OpenAI.ChatModel,
		StoreBackend: d.cfg.Store.Backend,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	return srv.Listen(":" + d.cfg.App.Port)
}
