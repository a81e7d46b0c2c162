package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore keeps entries in the prepared_wagers table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS prepared_wagers (
			id         uuid PRIMARY KEY,
			account    text NOT NULL,
			kind       text NOT NULL,
			lamports   bigint NOT NULL DEFAULT 0,
			side       text NOT NULL DEFAULT '',
			metadata   text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS prepared_wagers_account_idx ON prepared_wagers (account, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ledger: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prepared_wagers (id, account, kind, lamports, side, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Account, e.Kind, int64(e.Lamports), e.Side, e.Metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledger: insert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, account string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account, kind, lamports, side, metadata, created_at
		FROM prepared_wagers
		WHERE account = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, account, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: query: %w", err)
	}
	defer rows.Close()
	out := []*Entry{}
	for rows.Next() {
		var e Entry
		var lamports int64
		if err := rows.Scan(&e.ID, &e.Account, &e.Kind, &lamports, &e.Side, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		e.Lamports = uint64(lamports)
		out = append(out, &e)
	}
	return out, rows.Err()
}
