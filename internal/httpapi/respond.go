package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/registry"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/vault"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps the engine's error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vault.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, vault.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, vault.ErrIndexOutOfRange), errors.Is(err, registry.ErrVaultNotFound):
		return http.StatusNotFound
	case errors.Is(err, vault.ErrInsufficientBalance), errors.Is(err, vault.ErrNothingToWithdraw):
		return http.StatusConflict
	case errors.Is(err, vault.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
