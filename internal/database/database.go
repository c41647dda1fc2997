package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/Rtvk-001/FilmHive/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed schema.sql
var schema string

func Connect(cfg *config.Config) (*sqlx.DB, error) {

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent
// (IF NOT EXISTS), so running it at each startup is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// TxRunner runs a function inside a database transaction. Services depend on
// this interface instead of *sqlx.DB so unit tests can run the function with
// a nil transaction against mock repositories.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// SQLTxRunner implements TxRunner on a real connection pool.
type SQLTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

// RunInTx begins a transaction, runs fn, and commits. Any error from fn
// rolls the whole transaction back, so a multi-step mutation either fully
// applies or leaves no trace.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
