// Command deploy constructs a vault instance once and persists its address
// for the read proxy and client to pick up. It has no other logic.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "deploy").Logger()

	var (
		vaultdURL = flag.String("vaultd", "http://localhost:8080", "vaultd base URL")
		owner     = flag.String("owner", os.Getenv("CALLER_ADDRESS"), "owner address (defaults to CALLER_ADDRESS)")
		out       = flag.String("out", ".env", "dotenv file to write VAULT_ADDRESS into")
	)
	flag.Parse()

	if *owner == "" {
		log.Fatal().Msg("owner address is required (-owner or CALLER_ADDRESS)")
	}

	address, err := createVault(*vaultdURL, *owner)
	if err != nil {
		log.Fatal().Err(err).Msg("create vault")
	}

	// Merge into the existing dotenv so deploy can be re-pointed without
	// clobbering unrelated settings.
	env, err := godotenv.Read(*out)
	if err != nil {
		env = map[string]string{}
	}
	env["VAULT_ADDRESS"] = address
	if err := godotenv.Write(env, *out); err != nil {
		log.Fatal().Err(err).Msg("write dotenv")
	}

	log.Info().
		Str("vault", address).
		Str("owner", *owner).
		Str("out", *out).
		Msg("vault deployed")
}

func createVault(vaultdURL, owner string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, vaultdURL+"/vaults", bytes.NewReader(nil))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Caller-Address", owner)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return "", fmt.Errorf("vaultd returned %s: %s", resp.Status, payload.Error)
	}

	var payload struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Address, nil
}
