package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/handlers"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/conversation"
	"concierge/services/exely"
	ai "concierge/services/intelligence"
	"concierge/services/session"
	"concierge/telegram"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Booking provider client and in-memory stores.
	providerClient := exely.NewClient(
		config.AppConfig.ExelyBaseURL,
		config.AppConfig.ExelyAPIKey,
		config.ExelyTimeout(),
	)
	offerStore := booking.NewOfferStore(config.OfferTTL())
	hotelCache := booking.NewHotelInfoCache(config.HotelInfoTTL())

	sweeperStop := make(chan struct{})
	offerStore.StartSweeper(5*time.Minute, sweeperStop)
	defer close(sweeperStop)

	// services.
	bookingService := booking.NewDefaultBookingService(providerClient, offerStore, hotelCache, booking.Options{
		DefaultHotelCode:  config.AppConfig.DefaultHotelCode,
		DefaultLanguage:   config.AppConfig.DefaultLanguage,
		DefaultCurrency:   config.AppConfig.DefaultCurrency,
		SuccessURL:        config.AppConfig.SuccessURL,
		DeclineURL:        config.AppConfig.DeclineURL,
		POSSourceURL:      config.AppConfig.POSSourceURL,
		POSIntegrationKey: config.AppConfig.POSIntegrationKey,
	})

	interpreter := ai.NewGeminiClient(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		config.AppConfig.DefaultHotelCode,
		config.AppConfig.DefaultLanguage,
	)

	sessionStore := session.NewStore()
	engine := conversation.NewEngine(interpreter, bookingService, sessionStore, conversation.Options{
		DefaultHotelCode: config.AppConfig.DefaultHotelCode,
		DefaultLanguage:  config.AppConfig.DefaultLanguage,
		HistoryLimit:     config.AppConfig.DialogHistoryLength,
	})

	utils.StartHealthMonitor(func(ctx context.Context) error {
		_, err := providerClient.HotelInfo(ctx, config.AppConfig.DefaultHotelCode, config.AppConfig.DefaultLanguage)
		return err
	})

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(engine, sessionStore)
	routes.RegisterRoutes(router, handlerBundle)

	// Optional Telegram transport, long-polling alongside the HTTP server.
	botCtx, botCancel := context.WithCancel(context.Background())
	defer botCancel()
	if token := config.AppConfig.TelegramBotToken; token != "" {
		tgBot, err := telegram.NewBot(token, engine)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize telegram bot: %v", err)
		}
		go tgBot.Start(botCtx)
		logger.Sugar().Info("main: telegram transport started")
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	botCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
