package payout

import (
	"context"
	"testing"
)

func TestRecorderJournalsTransfers(t *testing.T) {
	r := NewRecorder()

	if err := r.Transfer(context.Background(), "owner-1", 50); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := r.Transfer(context.Background(), "owner-1", 25); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	journal := r.Transfers()
	if len(journal) != 2 {
		t.Fatalf("expected 2 journal records, got %d", len(journal))
	}
	if journal[0].Amount != 50 || journal[1].Amount != 25 {
		t.Fatalf("journal out of order: %+v", journal)
	}
	if journal[0].To != "owner-1" {
		t.Fatalf("unexpected destination: %s", journal[0].To)
	}
	if journal[0].At.IsZero() {
		t.Fatal("settlement time should be recorded")
	}
}
