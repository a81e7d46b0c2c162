// Package blinks holds process-wide resources shared by the action server's
// packages. Today that is the optional Postgres handle behind the ledger.
package blinks

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	ledgerAppName     = "gamba-blinks"
	ledgerPingTimeout = 5 * time.Second
)

var (
	ledgerOnce sync.Once
	ledgerDB   *sql.DB
	ledgerErr  error
)

// LedgerDB returns the shared handle for DATABASE_URL, opened on first use.
// With DATABASE_URL unset it returns (nil, nil) and the ledger stays on disk.
func LedgerDB(ctx context.Context) (*sql.DB, error) {
	ledgerOnce.Do(func() {
		ledgerDB, ledgerErr = openLedgerDB(ctx, os.Getenv("DATABASE_URL"))
	})
	return ledgerDB, ledgerErr
}

func openLedgerDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, nil
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("blinks: parse DATABASE_URL: %w", err)
	}
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = map[string]string{}
	}
	cfg.RuntimeParams["application_name"] = ledgerAppName
	// Ledger writes are single INSERTs; the simple protocol keeps them working
	// behind transaction-mode poolers.
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db := stdlib.OpenDB(*cfg)
	// One insert per prepared transaction; a handful of connections is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(4 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, ledgerPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blinks: connect ledger database: %w", err)
	}
	return db, nil
}
