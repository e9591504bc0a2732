package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

func TestSaveAndGetEntries(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	first := models.PaymentEntry{Sender: "a", Amount: 10, Timestamp: time.Now()}
	second := models.PaymentEntry{Sender: "b", Amount: 20, Timestamp: time.Now()}

	if err := store.SaveEntry(ctx, "vault-1", 0, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.SaveEntry(ctx, "vault-1", 1, second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	// Independent vault, independent log.
	if err := store.SaveEntry(ctx, "vault-2", 0, first); err != nil {
		t.Fatalf("save to second vault: %v", err)
	}

	entries, err := store.GetEntries(ctx, "vault-1")
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Sender != "a" || entries[1].Amount != 20 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestSaveEntryExactlyOnce(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	entry := models.PaymentEntry{Sender: "a", Amount: 10, Timestamp: time.Now()}

	if err := store.SaveEntry(ctx, "vault-1", 0, entry); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveEntry(ctx, "vault-1", 0, entry); err == nil {
		t.Fatal("replayed index must be rejected")
	}
	if err := store.SaveEntry(ctx, "vault-1", 5, entry); err == nil {
		t.Fatal("gapped index must be rejected")
	}

	entries, _ := store.GetEntries(ctx, "vault-1")
	if len(entries) != 1 {
		t.Fatalf("log should hold one entry, got %d", len(entries))
	}
}

func TestGetEntriesReturnsCopy(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	if err := store.SaveEntry(ctx, "vault-1", 0, models.PaymentEntry{Sender: "a", Amount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, _ := store.GetEntries(ctx, "vault-1")
	entries[0].Amount = 999

	fresh, _ := store.GetEntries(ctx, "vault-1")
	if fresh[0].Amount != 1 {
		t.Fatalf("internal state mutated through returned slice: %+v", fresh[0])
	}
}
