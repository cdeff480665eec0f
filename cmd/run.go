package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"tabletop/config"
	"tabletop/database"
	"tabletop/events"
	"tabletop/repository"
	"tabletop/service"
	"tabletop/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting session engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Run pending migrations
	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	sessionService := service.NewSessionService(uowFactory, cfg)
	userService := service.NewUserService(uowFactory, cfg)
	venueService := service.NewVenueService(uowFactory, cfg)
	gameService := service.NewGameService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)

	server := web.NewServer(sessionService, userService, venueService, gameService, ledgerService)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Infof("Listening in %s mode", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		db.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// subscribeEventLogging attaches structured log handlers to domain events
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSessionStateChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SessionStateChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"sessionID": e.SessionID,
			"hostID":    e.HostID,
			"from":      e.OldStatus,
			"to":        e.NewStatus,
		}).Info("Session state changed")
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":     e.UserID,
			"amount":     e.ChangeAmount,
			"newBalance": e.NewBalance,
			"reason":     e.Reason,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.UserCreatedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":   e.UserID,
			"username": e.Username,
		}).Info("User created")
	})
}
