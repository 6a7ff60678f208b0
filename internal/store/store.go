// Package store persists authority snapshots in SQLite so instances can be
// resumed across daemon restarts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/ident"
)

// ErrNotFound is returned when no snapshot exists for the requested id.
var ErrNotFound = errors.New("store: snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                    TEXT PRIMARY KEY,
	origin_domain         INTEGER NOT NULL,
	owner                 TEXT NOT NULL,
	pending_owner         TEXT NOT NULL,
	two_step_ownership    INTEGER NOT NULL,
	recovery_enabled      INTEGER NOT NULL,
	recovery_address      TEXT NOT NULL,
	recovery_initiated_at INTEGER NOT NULL,
	recovery_delay_ms     INTEGER NOT NULL,
	updated_at            INTEGER NOT NULL
);
`

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a snapshot store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts a snapshot keyed by its id.
func (s *Store) Save(ctx context.Context, snap authority.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.ID == "" {
		return fmt.Errorf("store: snapshot id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, origin_domain, owner, pending_owner, two_step_ownership,
			recovery_enabled, recovery_address, recovery_initiated_at,
			recovery_delay_ms, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			origin_domain         = excluded.origin_domain,
			owner                 = excluded.owner,
			pending_owner         = excluded.pending_owner,
			two_step_ownership    = excluded.two_step_ownership,
			recovery_enabled      = excluded.recovery_enabled,
			recovery_address      = excluded.recovery_address,
			recovery_initiated_at = excluded.recovery_initiated_at,
			recovery_delay_ms     = excluded.recovery_delay_ms,
			updated_at            = excluded.updated_at`,
		snap.ID,
		int64(snap.OriginDomain),
		identText(snap.Owner),
		identText(snap.PendingOwner),
		boolInt(snap.TwoStepOwnership),
		boolInt(snap.RecoveryEnabled),
		identText(snap.RecoveryAddress),
		timeMilli(snap.RecoveryInitiatedAt),
		snap.RecoveryDelay.Milliseconds(),
		timeMilli(snap.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Load returns the snapshot for the given id, or ErrNotFound.
func (s *Store) Load(ctx context.Context, id string) (authority.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return authority.Snapshot{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, origin_domain, owner, pending_owner, two_step_ownership,
		       recovery_enabled, recovery_address, recovery_initiated_at,
		       recovery_delay_ms, updated_at
		FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return authority.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return authority.Snapshot{}, fmt.Errorf("store: load snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns all persisted snapshots ordered by id.
func (s *Store) List(ctx context.Context) ([]authority.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, origin_domain, owner, pending_owner, two_step_ownership,
		       recovery_enabled, recovery_address, recovery_initiated_at,
		       recovery_delay_ms, updated_at
		FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()

	var out []authority.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list snapshots: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot for the given id. Missing ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete snapshot %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (authority.Snapshot, error) {
	var (
		snap                 authority.Snapshot
		domain               int64
		owner, pending, addr string
		twoStep, recEnabled  int64
		recAt, delayMS, upAt int64
	)
	err := row.Scan(&snap.ID, &domain, &owner, &pending, &twoStep,
		&recEnabled, &addr, &recAt, &delayMS, &upAt)
	if err != nil {
		return authority.Snapshot{}, err
	}

	snap.OriginDomain = ident.DomainID(domain)
	if snap.Owner, err = parseIdentText(owner); err != nil {
		return authority.Snapshot{}, fmt.Errorf("owner: %w", err)
	}
	if snap.PendingOwner, err = parseIdentText(pending); err != nil {
		return authority.Snapshot{}, fmt.Errorf("pending owner: %w", err)
	}
	if snap.RecoveryAddress, err = parseIdentText(addr); err != nil {
		return authority.Snapshot{}, fmt.Errorf("recovery address: %w", err)
	}
	snap.TwoStepOwnership = twoStep != 0
	snap.RecoveryEnabled = recEnabled != 0
	snap.RecoveryInitiatedAt = milliTime(recAt)
	snap.RecoveryDelay = time.Duration(delayMS) * time.Millisecond
	snap.UpdatedAt = milliTime(upAt)
	return snap, nil
}

func identText(id ident.Identity) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

func parseIdentText(s string) (ident.Identity, error) {
	if s == "" {
		return ident.Null, nil
	}
	return ident.ParseIdentity(s)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func timeMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func milliTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
