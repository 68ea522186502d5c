package tdv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// SnapshotStore keeps a vector snapshot in SQLite: one row per sense and
// one row per stored coordinate.
type SnapshotStore struct {
	db *sql.DB
}

const snapshotSchemaDDL = `
CREATE TABLE IF NOT EXISTS senses (
	id INTEGER PRIMARY KEY,
	term TEXT NOT NULL,
	pos TEXT NOT NULL,
	lang TEXT NOT NULL,
	descr TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_senses_term ON senses(term);

CREATE TABLE IF NOT EXISTS features (
	sense_id INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	dim INTEGER NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (sense_id, dim)
) WITHOUT ROWID;
`

// OpenSnapshotStore opens or creates the store at dbPath.
func OpenSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	ctx := context.Background()
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", snapshotSchemaDDL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare snapshot db: %w", err)
		}
	}
	return &SnapshotStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close snapshot db: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot with the content of cache, in one
// transaction.
func (s *SnapshotStore) Save(ctx context.Context, cache *SenseCache) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM features", "DELETE FROM senses"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	insSense, err := tx.PrepareContext(ctx, "INSERT INTO senses (id, term, pos, lang, descr) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare sense insert: %w", err)
	}
	defer insSense.Close()
	insFeat, err := tx.PrepareContext(ctx, "INSERT INTO features (sense_id, dim, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer insFeat.Close()

	for _, id := range cache.IDs() {
		sense, _ := cache.Get(id)
		if _, err = insSense.ExecContext(ctx, int64(sense.ID), sense.Term, sense.POS, sense.Lang, sense.Gloss); err != nil {
			return fmt.Errorf("insert sense %d: %w", sense.ID, err)
		}
		for _, dim := range sense.Vector.Keys() {
			if _, err = insFeat.ExecContext(ctx, int64(sense.ID), int64(dim), sense.Vector[dim]); err != nil {
				return fmt.Errorf("insert feature %d/%d: %w", sense.ID, dim, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load fills cache from the store. An empty store is reported as
// ErrNotFound.
func (s *SnapshotStore) Load(ctx context.Context, cache *SenseCache) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, term, pos, lang, descr FROM senses ORDER BY id")
	if err != nil {
		return fmt.Errorf("query senses: %w", err)
	}
	byID := make(map[int64]*Sense)
	for rows.Next() {
		var (
			id    int64
			sense Sense
		)
		if err := rows.Scan(&id, &sense.Term, &sense.POS, &sense.Lang, &sense.Gloss); err != nil {
			rows.Close()
			return fmt.Errorf("scan sense: %w", err)
		}
		sense.ID = uint64(id)
		sense.Vector = NewVector()
		byID[id] = &sense
		cache.Put(&sense)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate senses: %w", err)
	}
	rows.Close()
	if len(byID) == 0 {
		return fmt.Errorf("snapshot store has no senses: %w", ErrNotFound)
	}

	frows, err := s.db.QueryContext(ctx, "SELECT sense_id, dim, value FROM features")
	if err != nil {
		return fmt.Errorf("query features: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var (
			id, dim int64
			value   float64
		)
		if err := frows.Scan(&id, &dim, &value); err != nil {
			return fmt.Errorf("scan feature: %w", err)
		}
		if sense, ok := byID[id]; ok {
			sense.Vector[uint64(dim)] = value
		}
	}
	if err := frows.Err(); err != nil {
		return fmt.Errorf("iterate features: %w", err)
	}
	cache.freeze()
	return nil
}

// SaveSnapshotStore writes the engine's cache to the SQLite store at path.
func (e *Engine) SaveSnapshotStore(ctx context.Context, path string) error {
	store, err := OpenSnapshotStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, e.cache)
}
