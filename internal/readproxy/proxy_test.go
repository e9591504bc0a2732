package readproxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/config"
)

type fakeReader struct {
	batch EntriesBatch
	bal   uint64
	err   error
}

func (f *fakeReader) Count(context.Context, string) (int, error) {
	return f.batch.Count, f.err
}

func (f *fakeReader) HeldBalance(context.Context, string) (uint64, error) {
	return f.bal, f.err
}

func (f *fakeReader) Entries(_ context.Context, _ string, offset, limit int) (EntriesBatch, error) {
	if f.err != nil {
		return EntriesBatch{}, f.err
	}
	return f.batch, nil
}

func testConfig() config.ReadProxy {
	cfg := config.DefaultReadProxy()
	cfg.VaultAddress = "vault-1"
	return cfg
}

func TestListPaymentsFormatting(t *testing.T) {
	ts := time.Date(2026, 7, 9, 15, 4, 5, 0, time.UTC)
	reader := &fakeReader{
		batch: EntriesBatch{
			Senders:    []string{"user-1", "user-2"},
			Amounts:    []uint64{100, 250000000},
			Timestamps: []time.Time{ts, ts.Add(time.Hour)},
			Count:      2,
		},
	}
	svc := NewService(reader, testConfig(), zerolog.Nop())

	page, err := svc.ListPayments(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Payments, 2)
	assert.Equal(t, 2, page.Total)

	first := page.Payments[0]
	assert.Equal(t, "user-1", first.Sender)
	assert.Equal(t, uint64(100), first.Amount)
	assert.Equal(t, "0.00000100 PAY", first.AmountDisplay)
	assert.Equal(t, "2026-07-09T15:04:05Z", first.Date)

	second := page.Payments[1]
	assert.Equal(t, "2.50000000 PAY", second.AmountDisplay)
}

func TestBalanceFormatting(t *testing.T) {
	svc := NewService(&fakeReader{bal: 123456789}, testConfig(), zerolog.Nop())

	record, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), record.Balance)
	assert.Equal(t, "1.23456789 PAY", record.Display)
}

func TestHandlerReadFailure(t *testing.T) {
	svc := NewService(&fakeReader{err: errors.New("engine unreachable")}, testConfig(), zerolog.Nop())
	h := svc.Handler()

	for _, path := range []string{"/payments", "/balance", "/healthz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code, path)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), path)
		assert.Contains(t, payload["error"], "engine unreachable", path)
	}
}

func TestHandlerHealth(t *testing.T) {
	svc := NewService(&fakeReader{batch: EntriesBatch{Count: 3}}, testConfig(), zerolog.Nop())
	h := svc.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, float64(3), payload["entries"])
}

// Client reads through a fake engine surface end to end.
func TestClientReads(t *testing.T) {
	ts := time.Date(2026, 7, 9, 15, 4, 5, 123456789, time.UTC)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/vaults/vault-1/count":
			json.NewEncoder(w).Encode(map[string]int{"count": 2})
		case "/vaults/vault-1/balance":
			json.NewEncoder(w).Encode(map[string]uint64{"balance": 300})
		case "/vaults/vault-1/entries":
			json.NewEncoder(w).Encode(map[string]any{
				"senders":    []string{"user-1"},
				"amounts":    []uint64{100},
				"timestamps": []string{ts.Format(time.RFC3339Nano)},
				"count":      2,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "vault not found"})
		}
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	count, err := client.Count(context.Background(), "vault-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	balance, err := client.HeldBalance(context.Background(), "vault-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(300), balance)

	batch, err := client.Entries(context.Background(), "vault-1", 0, 10)
	require.NoError(t, err)
	require.Len(t, batch.Senders, 1)
	assert.Equal(t, "user-1", batch.Senders[0])
	assert.True(t, batch.Timestamps[0].Equal(ts))
	assert.Equal(t, 2, batch.Count)

	// Engine-read failures carry the upstream's message.
	_, err = client.Count(context.Background(), "vault-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault not found")
}
