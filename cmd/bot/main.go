package main

import (
	"BazarBot/internal/adapters/ai"
	"BazarBot/internal/adapters/eventbus"
	"BazarBot/internal/adapters/postgres"
	"BazarBot/internal/adapters/telegram"
	"BazarBot/internal/bot"
	"BazarBot/internal/bot/admin"
	"BazarBot/internal/bot/customer"
	"BazarBot/internal/bot/diagnostics"
	"BazarBot/internal/bot/handoff"
	"BazarBot/internal/bot/moderation"
	"BazarBot/internal/bot/wizard"
	"BazarBot/internal/shared/config"
	"BazarBot/internal/shared/logger"
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapLog := logger.New(true)
		bootstrapLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.AppEnv == "dev")
	log.Info().Str("env", cfg.AppEnv).Msg("Starting marketplace bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.DatabaseURL, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db, &log)
	listingRepo := postgres.NewListingRepository(db, &log)
	faqRepo := postgres.NewFAQRepository(db, &log)

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram API client")
	}
	log.Info().Str("bot_username", api.Self.UserName).Msg("Authorized on Telegram")

	botClient := telegram.NewClient(api, &log)
	bus := eventbus.NewInMemoryEventBus(&log)
	completer := ai.NewClient(cfg.AI, &log)

	workflow := moderation.NewWorkflow(listingRepo, botClient, cfg.AdminChatID, cfg.ChannelID, cfg.HashtagLimit, &log)
	wiz := wizard.NewWizard(userRepo, listingRepo, botClient, workflow, cfg.MaxPendingPerSeller, &log)
	ho := handoff.NewHandoff(userRepo, botClient, cfg.AdminChatID, &log)
	cust := customer.NewHandlers(userRepo, listingRepo, faqRepo, botClient, completer, cfg.AdminChatID, &log)
	panel := admin.NewPanel(userRepo, listingRepo, faqRepo, botClient, workflow, cfg.AdminChatID, &log)

	router := bot.NewRouter(userRepo, botClient, bus, wiz, ho, cust, panel, cfg.AdminChatID, &log)

	router.RegisterCommand(bot.NewCommand("start", cust.Start))
	router.RegisterCommand(bot.NewCommand("cancel", cust.Cancel))
	router.RegisterCommand(bot.NewCommand("stopchat", ho.StopChat))
	router.RegisterCommand(panel)

	router.RegisterCallback(wizard.NewConfirmHandler(wiz))
	router.RegisterCallback(moderation.NewApproveHandler(workflow))
	router.RegisterCallback(moderation.NewRejectHandler(workflow))
	router.RegisterCallback(moderation.NewSoldHandler(workflow))
	router.RegisterCallback(handoff.NewOpenChatHandler(ho))
	router.RegisterCallback(admin.NewMenuHandler(panel))
	router.RegisterCallback(admin.NewUnblockHandler(panel))
	router.RegisterCallback(admin.NewBlockHandler(panel))

	diagnostics.Subscribe(bus, botClient, cfg.AdminChatID, &log)

	if err := botClient.SetMenuCommands(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to set menu commands")
	}

	server := telegram.NewBotServer(api, router, &cfg.Bot, &log)
	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Bot server failed")
	}

	log.Info().Msg("Shutdown complete")
}
