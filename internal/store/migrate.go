package store

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const versionKey = "_meta:version"

// MigrationError reports a migration that would downgrade the schema
// version, or a migration function that failed.
type MigrationError struct {
	Version uint32
	Message string
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("store: migration %d: %s", e.Version, e.Message)
}

// MigrationFn performs one forward-only schema step. It MUST be
// idempotent: a migration can run func() to completion and still have the
// process crash before the version counter is persisted, in which case it
// reruns on the next startup.
type MigrationFn func(ctx context.Context, s *Store) error

type migration struct {
	name string
	fn   MigrationFn
}

// migrations lists every schema migration in order; the slice index + 1 is
// the migration's version number, matching the original implementation's
// convention.
func migrations() []migration {
	return []migration{
		{"001_initial", migrationInitial},
		{"002_word_due_index_backfill", migrationWordDueIndexBackfill},
	}
}

// RunMigrations applies every migration newer than the persisted version,
// checkpointing the version after each one succeeds.
func RunMigrations(ctx context.Context, s *Store) error {
	current, err := CurrentVersion(ctx, s)
	if err != nil {
		return err
	}

	for i, m := range migrations() {
		version := uint32(i + 1) //nolint:gosec // migration count is bounded and small
		if version <= current {
			continue
		}
		if err := m.fn(ctx, s); err != nil {
			return fmt.Errorf("migration %s (v%d): %w", m.name, version, err)
		}
		if err := SetVersion(ctx, s, version); err != nil {
			return err
		}
	}
	return nil
}

// CurrentVersion reads the persisted schema version, defaulting to 0 for a
// fresh database.
func CurrentVersion(ctx context.Context, s *Store) (uint32, error) {
	var version uint32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(TreeConfigVersions + versionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				version = 0
				return nil
			}
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				version = 0
				return nil
			}
			version = binary.BigEndian.Uint32(val)
			return nil
		})
	})
	return version, err
}

// SetVersion persists the schema version, refusing to move backwards.
func SetVersion(ctx context.Context, s *Store, version uint32) error {
	current, err := CurrentVersion(ctx, s)
	if err != nil {
		return err
	}
	if version < current {
		return &MigrationError{Version: version, Message: fmt.Sprintf("refuse to downgrade from %d to %d", current, version)}
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, version)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(TreeConfigVersions+versionKey), buf)
	})
}

// migrationInitial is a no-op: the schema is defined entirely by the key
// constructors in keys.go, there is no separate DDL step for a KV store.
func migrationInitial(ctx context.Context, s *Store) error {
	return nil
}

// wordLearningStateForMigration mirrors only the fields migrationWordDueIndexBackfill
// needs, so this migration doesn't import internal/amas (which would
// otherwise depend on internal/store, creating a cycle).
type wordLearningStateForMigration struct {
	UserID         string `json:"userId"`
	WordID         string `json:"wordId"`
	NextReviewAtMs *int64 `json:"nextReviewAtMs"`
}

// migrationWordDueIndexBackfill (re)builds the word_due_index tree from
// every existing word_learning_states row's nextReviewAtMs, so the word
// selector's due-word scan works for data written before the due-index
// tree existed.
func migrationWordDueIndexBackfill(ctx context.Context, s *Store) error {
	return s.ScanTree(ctx, TreeWordLearningStates, "", 0, func(suffix string, val []byte) error {
		var state wordLearningStateForMigration
		if err := decodeJSON(val, &state); err != nil {
			return nil // skip malformed rows rather than abort the whole migration
		}
		if state.NextReviewAtMs == nil {
			return nil
		}
		key, err := WordDueIndexKey(state.UserID, *state.NextReviewAtMs, state.WordID)
		if err != nil {
			return nil
		}
		return s.PutTree(ctx, TreeWordDueIndex, key, struct{}{})
	})
}
