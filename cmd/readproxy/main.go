// Command readproxy mirrors a vault's read surface as human-readable HTTP
// endpoints: list-payments, get-balance, health.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/config"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/readproxy"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "readproxy").Logger()

	configPath := flag.String("config", "config/readproxy.yaml", "proxy config file")
	flag.Parse()

	cfg, err := config.LoadReadProxy(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.VaultAddress == "" {
		log.Fatal().Msg("no vault address configured; run the deploy tool first")
	}

	svc := readproxy.NewService(readproxy.NewClient(cfg.VaultdURL), cfg, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("vault", cfg.VaultAddress).
		Str("upstream", cfg.VaultdURL).
		Msg("readproxy listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}
