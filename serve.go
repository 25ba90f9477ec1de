package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"DatePlanBot/config"
	"DatePlanBot/handler"
	"DatePlanBot/places"
	"DatePlanBot/repo"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot until interrupted",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to a YAML config file")
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	var logger zerolog.Logger
	switch cfg.Format {
	case "json":
		logger = zerolog.New(os.Stderr)
	case "", "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	log.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A nil finder leaves place search off.
	var finder places.Finder
	if cfg.MapsAPIKey != "" {
		connector, err := repo.NewPlacesConnector(ctx, cfg.MapsAPIKey)
		if err != nil {
			return fmt.Errorf("error creating places connector: %w", err)
		}
		finder = connector
	} else {
		logger.Warn().Msg("no maps api key, place search is disabled")
	}

	wizardBot, err := handler.NewWizardBotHandler(finder, cfg, logger)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(wizardBot.Handler),
		bot.WithCallbackQueryDataHandler(handler.CallbackPrefix, bot.MatchTypePrefix, wizardBot.Callback),
	)
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}

	logger.Info().Msg("bot started")
	b.Start(ctx)
	logger.Info().Msg("bot stopped")
	return nil
}
