package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"ceelo/internal/api"
	"ceelo/internal/commands"
	"ceelo/internal/database"
	"ceelo/internal/games"
	"ceelo/internal/games/ceelo"
	"ceelo/internal/ledger"
	"ceelo/internal/webhook"
	"ceelo/pkg/config"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(configPath())
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.General.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.General.LogLevel).Warn("unknown log level, using info")
	}

	store, err := database.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer store.Close()

	l := ledger.New(cfg.Game)
	saved, err := store.LoadPlayers()
	if err != nil {
		log.WithError(err).Fatal("failed to load players")
	}
	for _, p := range saved {
		if err := l.Restore(p); err != nil {
			log.WithError(err).WithField("player", p.Name).Warn("skipping saved player")
		}
	}
	history, err := store.RecentRounds(games.DefaultHistoryLimit)
	if err != nil {
		log.WithError(err).Fatal("failed to load round history")
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	dice, err := ceelo.NewDice(cfg.Game.DiceSides, ceelo.NewSeededSource(seed))
	if err != nil {
		log.WithError(err).Fatal("failed to build dice")
	}

	dispatcher := games.NewDispatcher(64, log)
	defer dispatcher.Close()

	opts := []games.Option{
		games.WithStore(store),
		games.WithLogger(log),
		games.WithDispatcher(dispatcher),
		games.WithHistory(history),
	}

	var sender *webhook.Sender
	if cfg.General.WebhookURL != "" {
		sender = webhook.NewSender(cfg.General.WebhookURL, log)
		if err := sender.Ping(); err != nil {
			log.WithError(err).Warn("webhook did not answer the test event")
		}
		defer sender.Wait()
		opts = append(opts, games.WithNotifier(sender))
	}

	table, err := games.NewTable(cfg.Game, l, dice, opts...)
	if err != nil {
		log.WithError(err).Fatal("failed to set up the table")
	}

	var server *api.Server
	if cfg.General.EnableAPI {
		server = api.NewServer(table, cfg.General.ApiKey, log)
		go func() {
			if err := server.Start(cfg.General.ApiPort); err != nil {
				log.WithError(err).Error("API server stopped")
			}
		}()
	} else {
		log.Debug("API is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pterm.DefaultHeader.WithFullWidth().Println(cfg.General.AppName)
	if l.Len() > 0 {
		pterm.Info.Printfln("Welcome back! %d players restored, %d rounds in history.", l.Len(), len(history))
	}
	pterm.Println("Type help to see the commands.")

	handler := commands.NewHandler(table, cfg.General, os.Stdout)
	if err := handler.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("failed reading commands")
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("API server did not shut down cleanly")
		}
	}
	dispatcher.Flush()
}

func configPath() string {
	if path := os.Getenv("CEELO_CONFIG"); path != "" {
		return path
	}
	return "ceelo.json"
}
