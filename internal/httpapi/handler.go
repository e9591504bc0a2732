// Package httpapi exposes the vault engine over HTTP for the daemon.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/metrics"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/middleware"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/registry"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/vault"
)

var errMissingCaller = errors.New("X-Caller-Address header is required")

// timeLayout is the wire format for entry timestamps.
const timeLayout = time.RFC3339Nano

type ctxKey struct{}

type handler struct {
	registry *registry.Registry
	log      zerolog.Logger
}

// NewHandler returns the daemon's router. Callers identify themselves with
// the X-Caller-Address header; signing and authentication belong to the
// external signing agent, not this surface.
func NewHandler(reg *registry.Registry, log zerolog.Logger, limiter *middleware.RateLimiter) http.Handler {
	h := &handler{registry: reg, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Middleware)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/vaults", func(r chi.Router) {
		r.With(limiter.Handler).Post("/", h.createVault)

		r.Route("/{address}", func(r chi.Router) {
			r.Use(h.vaultCtx)

			r.With(limiter.Handler).Post("/deposit", h.deposit)
			r.With(limiter.Handler).Post("/withdraw", h.withdraw)
			r.With(limiter.Handler).Post("/withdraw-all", h.withdrawAll)

			r.Get("/balance", h.balance)
			r.Get("/owner", h.owner)
			r.Get("/count", h.count)
			r.Get("/entries", h.entries)
			r.Get("/entries/{index}", h.entryAt)

			// A bare value transfer addressed to the vault itself, and any
			// POST to a selector this router does not recognise, both funnel
			// into the deposit handler. One code path, one set of books.
			r.With(limiter.Handler).Post("/", h.deposit)
			r.NotFound(limiter.Handler(http.HandlerFunc(h.bareTransfer)).ServeHTTP)
		})
	})

	return r
}

// vaultCtx resolves {address} to a live vault and stashes it in the request
// context.
func (h *handler) vaultCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")
		v, err := h.registry.Get(address)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, v)))
	})
}

func vaultFrom(ctx context.Context) *vault.Vault {
	return ctx.Value(ctxKey{}).(*vault.Vault)
}

func callerAddress(r *http.Request) vault.Address {
	return vault.Address(r.Header.Get("X-Caller-Address"))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"vaults": h.registry.Len(),
	})
}

func (h *handler) createVault(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, errMissingCaller)
		return
	}

	v := h.registry.Create(caller)
	h.log.Info().
		Str("vault", v.Address()).
		Str("owner", string(caller)).
		Msg("vault created")

	writeJSON(w, http.StatusCreated, map[string]any{
		"address": v.Address(),
		"owner":   v.Owner(),
	})
}

func (h *handler) deposit(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())

	caller := callerAddress(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, errMissingCaller)
		return
	}

	// An empty body is a transfer of nothing; let the engine reject it so
	// zero-value handling stays on the one deposit path.
	var payload struct {
		Amount uint64 `json:"amount"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	index, err := v.Deposit(r.Context(), caller, payload.Amount)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	metrics.ObserveDeposit(payload.Amount)
	metrics.SetHeldBalance(v.Address(), v.HeldBalance())

	writeJSON(w, http.StatusCreated, map[string]any{"index": index})
}

// bareTransfer accepts a value transfer that named no recognised selector.
// Anything except a POST carrying value is an ordinary unknown route.
func (h *handler) bareTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.Body == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.deposit(w, r)
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())

	caller := callerAddress(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, errMissingCaller)
		return
	}

	var payload struct {
		Amount uint64 `json:"amount"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := v.Withdraw(r.Context(), caller, payload.Amount); err != nil {
		metrics.ObserveWithdrawal(false)
		writeError(w, statusFor(err), err)
		return
	}

	metrics.ObserveWithdrawal(true)
	metrics.SetHeldBalance(v.Address(), v.HeldBalance())

	writeJSON(w, http.StatusOK, map[string]any{"amount": payload.Amount})
}

func (h *handler) withdrawAll(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())

	caller := callerAddress(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, errMissingCaller)
		return
	}

	amount, err := v.WithdrawAll(r.Context(), caller)
	if err != nil {
		metrics.ObserveWithdrawal(false)
		writeError(w, statusFor(err), err)
		return
	}

	metrics.ObserveWithdrawal(true)
	metrics.SetHeldBalance(v.Address(), v.HeldBalance())

	writeJSON(w, http.StatusOK, map[string]any{"amount": amount})
}

func (h *handler) balance(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"balance": v.HeldBalance()})
}

func (h *handler) owner(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"owner": v.Owner()})
}

func (h *handler) count(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"count": v.Count()})
}

// entries serves the batch read as three parallel arrays in insertion order.
// offset/limit page through a long log; omitting them returns everything.
func (h *handler) entries(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	window, total, err := v.Entries(offset, limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	senders := make([]vault.Address, len(window))
	amounts := make([]uint64, len(window))
	timestamps := make([]string, len(window))
	for i, e := range window {
		senders[i] = e.Sender
		amounts[i] = e.Amount
		timestamps[i] = e.Timestamp.UTC().Format(timeLayout)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"senders":    senders,
		"amounts":    amounts,
		"timestamps": timestamps,
		"count":      total,
	})
}

func (h *handler) entryAt(w http.ResponseWriter, r *http.Request) {
	v := vaultFrom(r.Context())

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := v.EntryAt(index)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
