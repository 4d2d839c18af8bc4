package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"busboard.dev/busboard/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the departure board over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

var listen string

func init() {
	serveCmd.Flags().StringVarP(&listen, "listen", "", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	// A broken or missing schedule file still gets a board; it
	// renders the no-schedule state until the process restarts
	// with a good file.
	schedule, err := loadSchedule(cfg)
	if err != nil {
		log.Error().Err(err).Str("schedule", cfg.Schedule.Path).Msg("serving without schedule data")
	}

	rows := 0
	if schedule != nil {
		rows = schedule.Metadata.RowCount
	}
	log.Info().
		Str("schedule", cfg.Schedule.Path).
		Int("rows", rows).
		Str("listen", cfg.Server.Listen).
		Msg("starting departure board")

	server := web.NewServer(schedule, cfg.Board.Outbound, cfg.Board.Inbound, cfg.Board.Limit, log)
	return http.ListenAndServe(cfg.Server.Listen, server.Handler())
}
