// Package ledger keeps an audit trail of prepared wagers. Entries describe what
// was prepared for whom; the unsigned transaction itself is never stored.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	blinks "github.com/Ashenafi-pixel/gamba-blinks"
)

// Entry records one prepared transaction.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Account   string    `json:"account"`
	Kind      string    `json:"kind"` // "initialize" or "play"
	Lamports  uint64    `json:"lamports,omitempty"`
	Side      string    `json:"side,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	Append(ctx context.Context, e *Entry) error
	// Recent returns the newest entries for account, newest first.
	Recent(ctx context.Context, account string, limit int) ([]*Entry, error)
}

// NewEntry stamps an id and creation time.
func NewEntry(account, kind string) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Account:   account,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Open returns a Postgres store when DATABASE_URL is configured, otherwise a
// JSON file store under dataDir.
func Open(ctx context.Context, dataDir string) (Store, error) {
	db, err := blinks.LedgerDB(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return NewFileStore(dataDir), nil
	}
	pg := NewPostgresStore(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}
