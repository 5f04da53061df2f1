// Package repository defines the boxer store contract and errors.
package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/metrics"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLStore is a sqlite-backed Store implementation. It exists for
// deployments that need boxer records to survive a restart; the engine
// itself is indifferent to which Store it is handed.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore opens (or creates) the sqlite database at path and applies
// all pending migrations. WAL mode keeps readers off the writer's lock.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	// sqlite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Insert implements Store.Insert.
func (s *SQLStore) Insert(ctx context.Context, b model.Boxer) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO boxers (name, weight, height, reach, age, wins, fights)
		VALUES (?, ?, ?, ?, ?, 0, 0)
	`, b.Name, b.Weight, b.Height, b.Reach, b.Age)
	if err != nil {
		if isUniqueViolation(err) {
			metrics.RecordErrorByComponent("repository", "duplicate_name")
			return model.Boxer{}, fmt.Errorf("%q: %w", b.Name, ErrDuplicateName)
		}
		return model.Boxer{}, fmt.Errorf("inserting boxer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Boxer{}, fmt.Errorf("reading inserted id: %w", err)
	}

	b.ID = id
	b.Wins = 0
	b.Fights = 0
	b.WeightClass = model.WeightClassFor(b.Weight)
	return b, nil
}

// Delete implements Store.Delete.
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	res, err := s.db.ExecContext(ctx, `DELETE FROM boxers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting boxer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID implements Store.GetByID.
func (s *SQLStore) GetByID(ctx context.Context, id int64) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var b model.Boxer
	err := s.db.GetContext(ctx, &b, `
		SELECT id, name, weight, height, reach, age, wins, fights
		FROM boxers WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Boxer{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Boxer{}, fmt.Errorf("querying boxer by id: %w", err)
	}
	b.WeightClass = model.WeightClassFor(b.Weight)
	return b, nil
}

// GetByName implements Store.GetByName.
func (s *SQLStore) GetByName(ctx context.Context, name string) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var b model.Boxer
	err := s.db.GetContext(ctx, &b, `
		SELECT id, name, weight, height, reach, age, wins, fights
		FROM boxers WHERE name = ?
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Boxer{}, fmt.Errorf("name %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.Boxer{}, fmt.Errorf("querying boxer by name: %w", err)
	}
	b.WeightClass = model.WeightClassFor(b.Weight)
	return b, nil
}

// RecordResult implements Store.RecordResult. Both updates run in one
// transaction; a missing id rolls the whole result back.
func (s *SQLStore) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning result transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, upd := range []struct {
		id    int64
		query string
	}{
		{winnerID, `UPDATE boxers SET fights = fights + 1, wins = wins + 1 WHERE id = ?`},
		{loserID, `UPDATE boxers SET fights = fights + 1 WHERE id = ?`},
	} {
		res, err := tx.ExecContext(ctx, upd.query, upd.id)
		if err != nil {
			return fmt.Errorf("updating boxer stats: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading affected rows: %w", err)
		}
		if n == 0 {
			metrics.RecordErrorByComponent("repository", "not_found")
			return fmt.Errorf("id %d: %w", upd.id, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing result transaction: %w", err)
	}
	return nil
}

// List implements Store.List.
func (s *SQLStore) List(ctx context.Context) ([]model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var out []model.Boxer
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, weight, height, reach, age, wins, fights
		FROM boxers
	`)
	if err != nil {
		return nil, fmt.Errorf("listing boxers: %w", err)
	}
	for i := range out {
		out[i].WeightClass = model.WeightClassFor(out[i].Weight)
	}
	return out, nil
}

// Count implements Store.Count.
func (s *SQLStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM boxers`); err != nil {
		return 0
	}
	return n
}

// Ping implements Store.Ping.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging db: %w", err)
	}
	return nil
}

// Close terminates the database connection.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
