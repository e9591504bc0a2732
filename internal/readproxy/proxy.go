// Package readproxy serves human-readable views of a vault's payment log and
// balance over HTTP. It is a pure read adapter: every request reads through
// to the engine, and an engine-read failure becomes a request failure with a
// descriptive payload rather than a silently stale answer.
package readproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/config"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/middleware"
)

// VaultReader is the slice of the engine's read surface the proxy consumes.
type VaultReader interface {
	Count(ctx context.Context, vaultAddress string) (int, error)
	HeldBalance(ctx context.Context, vaultAddress string) (uint64, error)
	Entries(ctx context.Context, vaultAddress string, offset, limit int) (EntriesBatch, error)
}

// PaymentRecord is one formatted payment for human readers: the raw minor
// units, a scaled display string, and an ISO-8601 date.
type PaymentRecord struct {
	Sender        string `json:"sender"`
	Amount        uint64 `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Date          string `json:"date"`
}

// BalanceRecord is the formatted custody balance.
type BalanceRecord struct {
	Balance uint64 `json:"balance"`
	Display string `json:"display"`
}

// PaymentsPage is one page of the payment log.
type PaymentsPage struct {
	Payments []PaymentRecord `json:"payments"`
	Offset   int             `json:"offset"`
	Total    int             `json:"total"`
}

type Service struct {
	reader       VaultReader
	vaultAddress string
	unit         string
	decimals     int32
	pageLimit    int
	log          zerolog.Logger
}

func NewService(reader VaultReader, cfg config.ReadProxy, log zerolog.Logger) *Service {
	return &Service{
		reader:       reader,
		vaultAddress: cfg.VaultAddress,
		unit:         cfg.DisplayUnit,
		decimals:     cfg.DisplayDecimals,
		pageLimit:    cfg.PageLimit,
		log:          log,
	}
}

// ListPayments reads a page of the payment log and formats it. The page size
// is capped at the configured limit so one request can never drag the whole
// history across the wire.
func (s *Service) ListPayments(ctx context.Context, offset, limit int) (PaymentsPage, error) {
	if limit <= 0 || limit > s.pageLimit {
		limit = s.pageLimit
	}

	batch, err := s.reader.Entries(ctx, s.vaultAddress, offset, limit)
	if err != nil {
		return PaymentsPage{}, err
	}

	page := PaymentsPage{
		Payments: make([]PaymentRecord, len(batch.Senders)),
		Offset:   offset,
		Total:    batch.Count,
	}
	for i := range batch.Senders {
		page.Payments[i] = PaymentRecord{
			Sender:        batch.Senders[i],
			Amount:        batch.Amounts[i],
			AmountDisplay: s.formatAmount(batch.Amounts[i]),
			Date:          batch.Timestamps[i].UTC().Format(time.RFC3339),
		}
	}
	return page, nil
}

// Balance reads and formats the current custody balance.
func (s *Service) Balance(ctx context.Context) (BalanceRecord, error) {
	balance, err := s.reader.HeldBalance(ctx, s.vaultAddress)
	if err != nil {
		return BalanceRecord{}, err
	}
	return BalanceRecord{
		Balance: balance,
		Display: s.formatAmount(balance),
	}, nil
}

func (s *Service) formatAmount(amount uint64) string {
	d := decimal.NewFromUint64(amount).Shift(-s.decimals)
	return d.StringFixed(s.decimals) + " " + s.unit
}

// Handler returns the proxy's router: list-payments, get-balance, health.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(s.log))

	r.Get("/payments", s.handlePayments)
	r.Get("/balance", s.handleBalance)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Service) handlePayments(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset")
	limit := queryInt(r, "limit")

	page, err := s.ListPayments(r.Context(), offset, limit)
	if err != nil {
		s.respondReadFailure(w, err)
		return
	}
	s.respond(w, http.StatusOK, page)
}

func (s *Service) handleBalance(w http.ResponseWriter, r *http.Request) {
	record, err := s.Balance(r.Context())
	if err != nil {
		s.respondReadFailure(w, err)
		return
	}
	s.respond(w, http.StatusOK, record)
}

// handleHealth verifies an actual engine read rather than reporting the
// proxy's own liveness.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.reader.Count(r.Context(), s.vaultAddress)
	if err != nil {
		s.respondReadFailure(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": count,
	})
}

func (s *Service) respondReadFailure(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("engine read failed")
	s.respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
}

func (s *Service) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
