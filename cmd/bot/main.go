package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"documate/internal/bootstrap"
	"documate/internal/bot"
	"documate/internal/shared/config"
)

const (
	pollTimeoutSeconds = 30
	downloadTimeout    = 60 * time.Second
	shutdownTimeout    = 30 * time.Second
)

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.TelegramToken) == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram login: %v", err)
	}
	log.Printf("bot authorized as @%s workers=%d", api.Self.UserName, cfg.BotWorkers)

	b := &bot.Bot{
		Assistant: app.Assistant,
		Sender:    api,
		Files:     bot.NewDirectFileFetcher(api, downloadTimeout),
		Workers:   cfg.BotWorkers,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	b.Run(ctx, updates)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(shutdownCtx); err != nil {
		log.Printf("release documents: %v", err)
	}
}
