// Command vaultd hosts vault instances behind an HTTP surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/config"
	kafkaevents "github.com/sheikh-saqib/custodial-payment-vault/internal/events/kafka"
	memoryevents "github.com/sheikh-saqib/custodial-payment-vault/internal/events/memory"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/httpapi"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/middleware"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/payout"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/registry"
	memorystore "github.com/sheikh-saqib/custodial-payment-vault/internal/storage/memory"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/storage/postgres"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/vault"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "vaultd").Logger()

	cfg, err := config.LoadVaultd()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	var store interfaces.EntryStore = memorystore.NewEntryStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		defer db.Close()
		store = postgres.NewEntryStore(db)
		log.Info().Msg("using postgres entry store")
	}

	var publisher interfaces.EventPublisher = memoryevents.NewPublisher()
	if cfg.KafkaBrokers != "" {
		kp := kafkaevents.NewPublisher(strings.Split(cfg.KafkaBrokers, ","))
		defer kp.Close()
		publisher = kp
		log.Info().Str("brokers", cfg.KafkaBrokers).Msg("publishing notifications to kafka")
	}

	sink := payout.NewRecorder()
	reg := registry.New(
		vault.WithEntryStore(store),
		vault.WithEventPublisher(publisher),
		vault.WithPayout(sink),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.NewHandler(reg, log, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).Msg("vaultd listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}
