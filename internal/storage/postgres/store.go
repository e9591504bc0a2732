package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// EntryStore persists accepted deposits in Postgres. The primary key on
// (vault_address, entry_index) makes the append exactly-once: a replayed
// index fails the insert and the deposit aborts before committing in memory.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{
		db: db,
	}
}

func (p *EntryStore) SaveEntry(ctx context.Context, vaultAddress string, index int, entry models.PaymentEntry) error {
	const query = `INSERT INTO payment_entries (vault_address, entry_index, sender, amount, created_at)
	VALUES ($1,$2,$3,$4,$5)`

	// Amounts are stored in a BIGINT column; anything past its range would
	// flip sign in the cast and die on the CHECK constraint with an opaque
	// error, so reject it here instead.
	if entry.Amount > math.MaxInt64 {
		return fmt.Errorf("amount %d exceeds storable range", entry.Amount)
	}

	_, err := p.db.ExecContext(ctx, query, vaultAddress, index, string(entry.Sender), int64(entry.Amount), entry.Timestamp)
	return err
}

func (p *EntryStore) GetEntries(ctx context.Context, vaultAddress string) ([]models.PaymentEntry, error) {
	const query = `SELECT sender, amount, created_at FROM payment_entries
	WHERE vault_address = $1 ORDER BY entry_index`

	rows, err := p.db.QueryContext(ctx, query, vaultAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PaymentEntry
	for rows.Next() {
		var (
			sender string
			amount int64
			entry  models.PaymentEntry
		)
		if err := rows.Scan(&sender, &amount, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.Sender = models.Address(sender)
		entry.Amount = uint64(amount)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ interfaces.EntryStore = (*EntryStore)(nil)
