// File: callpilot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callpilot/config"
	"callpilot/directory"
	"callpilot/handlers"
	"callpilot/middleware"
	"callpilot/routes"
	"callpilot/services/consolidation"
	"callpilot/services/forward"
	ai "callpilot/services/intelligence"
	"callpilot/services/outreach"
	"callpilot/services/ranking"
	"callpilot/services/telemetry"
	"callpilot/telephony"
	"callpilot/utils"

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
	router.Use(middleware.RateLimitMiddleware())

	// External collaborators.
	callClient := telephony.NewElevenLabsClient(
		config.AppConfig.ElevenLabsAPIKey,
		config.AppConfig.AgentID,
		config.AppConfig.AgentPhoneNumberID,
		logger,
	)
	calendarClient := forward.NewCalendarClient(
		config.AppConfig.CheckAvailabilityURL,
		config.AppConfig.ConfirmBookingURL,
		logger,
	)
	webhookSink := forward.NewWebhookSinkClient(config.AppConfig.ForwardWebhookURL)
	dir := directory.NewFileDirectory(
		config.AppConfig.ProvidersPath,
		config.AppConfig.UserPreferencesPath,
	)

	refiner, err := ai.NewGeminiRefiner(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize instruction refiner: %v", err)
	}

	// Core services.
	registry := outreach.NewRegistry(logger)
	registry.StartReaper(
		time.Duration(config.AppConfig.SessionTTLSeconds)*time.Second,
		30*time.Second,
	)

	dispatcher := &outreach.DefaultDispatcher{
		Client:   callClient,
		Registry: registry,
		Logger:   logger,
	}
	campaignService := &outreach.DefaultCampaignService{
		Dir:        dir,
		Engine:     &ranking.DefaultEngine{},
		Refiner:    refiner,
		Calendar:   calendarClient,
		Dispatcher: dispatcher,
		SwarmSize:  config.AppConfig.SwarmSize,
		Logger:     logger,
	}

	history := telemetry.NewHistory(telemetry.DefaultCapacity)
	consolidator := consolidation.NewDefaultConsolidator(registry, history, logger)
	forwarder := &forward.DefaultForwarder{
		Calendar: calendarClient,
		Webhook:  webhookSink,
		Logger:   logger,
	}

	// Handlers.
	outreachHandler := handlers.NewOutreachHandler(campaignService, logger)
	webhookHandler := handlers.NewWebhookHandler(consolidator, registry, forwarder, history, logger)
	telemetryHandler := handlers.NewTelemetryHandler(history)
	providersHandler := handlers.NewProvidersHandler(dir, &ranking.DefaultEngine{})
	statusHandler := handlers.NewStatusHandler(callClient, calendarClient, webhookSink)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		StartCallHandler:          outreachHandler.StartCallHandler,
		StartSwarmHandler:         outreachHandler.StartSwarmHandler,
		ConfirmationHandler:       webhookHandler.ConfirmationHandler,
		CallStateHandler:          webhookHandler.CallStateHandler,
		GetBookingsHandler:        telemetryHandler.GetBookingsHandler,
		GetRankedProvidersHandler: providersHandler.GetRankedProvidersHandler,
		GetStatusHandler:          statusHandler.GetStatusHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
