package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/attachments"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/config"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/handlers"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/realtime"
)

func main() {
	cfg := config.FromEnv()

	store, err := db.NewPostgres(cfg.ConnString())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	log.Println("Connected to PostgreSQL")

	att, err := attachments.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	router := handlers.NewRouter(cfg, store, att, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// No WriteTimeout: websocket responses are long-lived.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	hub.Stop()
}
