// Package store provides the durable, embedded key-value layer the AMAS
// engine persists its per-user and per-word state through. It wraps a
// single dgraph-io/badger/v4 database; "trees" are not a native badger
// concept, so each tree is emulated as a distinct single-byte-delimited
// key prefix over one shared instance. A badger read-write transaction
// already spans arbitrary keys atomically, so a "multi-tree transaction"
// is simply a db.Update callback that touches more than one prefix.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/Heartcoolman/wordforge-sub000/internal/metrics"
)

// Tree name constants double as key prefixes, each terminated with '#' so
// a tree name can never collide with (be a prefix-match false-positive
// against) another tree's name.
const (
	TreeUsers               = "users#"
	TreeSessions            = "sessions#"
	TreeWords               = "words#"
	TreeRecords             = "records#"
	TreeLearningSessions    = "learning_sessions#"
	TreeEngineUserStates    = "engine_user_states#"
	TreeEngineAlgorithmState = "engine_algorithm_states#"
	TreeWordLearningStates  = "word_learning_states#"
	TreeWordDueIndex        = "word_due_index#"
	TreeNotifications       = "notifications#"
	TreeMonitoringEvents    = "monitoring_events#"
	TreeConfigVersions      = "config_versions#"
	TreeWordMorphemes       = "word_morphemes#"
	TreeConfusionPairs      = "confusion_pairs#"
	TreeUserElo             = "user_elo#"
	TreeWordElo             = "word_elo#"
)

// Store is the engine's durable persistence layer.
type Store struct {
	db *badger.DB
}

// Options configures Open.
type Options struct {
	// Path is the on-disk directory badger manages. Empty means in-memory
	// (badger.DefaultOptions("").WithInMemory(true)), used by tests.
	Path string
	// InMemory forces an in-memory store regardless of Path, for tests.
	InMemory bool
}

// Open creates or opens the badger database at the configured path.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory || opts.Path == "" {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrStorage, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying badger handle for migrations and callers that
// need a true multi-tree transaction the typed helpers below don't cover.
func (s *Store) DB() *badger.DB {
	return s.db
}

// RunValueLogGC runs badger's value-log garbage collector once. Intended
// to be called periodically by a background job; badger.ErrNoRewrite is
// swallowed since it just means there was nothing to reclaim.
func (s *Store) RunValueLogGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("%w: value log gc: %v", ErrStorage, err)
	}
	return nil
}

func decodeJSON(val []byte, dest any) error {
	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

func treeKey(tree, key string) []byte {
	return []byte(tree + key)
}

// getJSON fetches tree+key and unmarshals into dest. Returns a NotFoundError
// wrapping entity/key when absent.
func (s *Store) getJSON(ctx context.Context, tree, entity, key string, dest any) error {
	start := time.Now()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(treeKey(tree, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return NewNotFound(entity, key)
		}
		if err != nil {
			return fmt.Errorf("%w: get %s/%s: %v", ErrStorage, tree, key, err)
		}
		return item.Value(func(val []byte) error {
			if jsonErr := json.Unmarshal(val, dest); jsonErr != nil {
				return fmt.Errorf("%w: %v", ErrSerialization, jsonErr)
			}
			return nil
		})
	})
	metrics.RecordStoreOperation("get", tree, time.Since(start), err)
	return err
}

// putJSON marshals src and writes it to tree+key in its own transaction.
func (s *Store) putJSON(ctx context.Context, tree, key string, src any) error {
	start := time.Now()
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if setErr := txn.Set(treeKey(tree, key), data); setErr != nil {
			return fmt.Errorf("%w: set %s/%s: %v", ErrStorage, tree, key, setErr)
		}
		return nil
	})
	metrics.RecordStoreOperation("put", tree, time.Since(start), err)
	return err
}

func (s *Store) deleteKey(ctx context.Context, tree, key string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		if delErr := txn.Delete(treeKey(tree, key)); delErr != nil && !errors.Is(delErr, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: delete %s/%s: %v", ErrStorage, tree, key, delErr)
		}
		return nil
	})
	metrics.RecordStoreOperation("delete", tree, time.Since(start), err)
	return err
}

// scanPrefix visits every key under tree+prefix in ascending byte order,
// calling fn with the key suffix (prefix stripped) and raw value. Stops
// early if fn returns an error.
func (s *Store) scanPrefix(ctx context.Context, tree, prefix string, limit int, fn func(suffix string, val []byte) error) error {
	full := treeKey(tree, prefix)
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		count := 0
		for it.Seek(full); it.ValidForPrefix(full); it.Next() {
			if limit > 0 && count >= limit {
				break
			}
			item := it.Item()
			suffix := string(item.Key()[len(treeKey(tree, "")):])
			err := item.Value(func(val []byte) error {
				return fn(suffix, val)
			})
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
}

// GetTree fetches tree+key and unmarshals into dest. entity is used only
// to label a NotFoundError for callers/logs.
func (s *Store) GetTree(ctx context.Context, tree, entity, key string, dest any) error {
	return s.getJSON(ctx, tree, entity, key, dest)
}

// PutTree marshals src and writes it under tree+key.
func (s *Store) PutTree(ctx context.Context, tree, key string, src any) error {
	return s.putJSON(ctx, tree, key, src)
}

// DeleteTree removes tree+key. Deleting an absent key is not an error.
func (s *Store) DeleteTree(ctx context.Context, tree, key string) error {
	return s.deleteKey(ctx, tree, key)
}

// ScanTree visits every key under tree+prefix in ascending order. limit<=0
// means unbounded.
func (s *Store) ScanTree(ctx context.Context, tree, prefix string, limit int, fn func(suffix string, val []byte) error) error {
	return s.scanPrefix(ctx, tree, prefix, limit, fn)
}

// Tx runs fn inside a single badger read-write transaction, giving callers
// (notably the engine's final persist step) an atomic multi-tree commit:
// every Set/Delete issued against txn within fn lands in one commit or
// none do.
func (s *Store) Tx(ctx context.Context, fn func(txn *badger.Txn) error) error {
	start := time.Now()
	err := s.db.Update(fn)
	metrics.RecordStoreOperation("tx", "multi", time.Since(start), err)
	if err != nil && !isTypedStoreError(err) {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return err
}

func isTypedStoreError(err error) bool {
	var nf *NotFoundError
	var cf *ConflictError
	var cas *CASExhaustedError
	return errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &cas) ||
		errors.Is(err, ErrValidation) || errors.Is(err, ErrSerialization) || errors.Is(err, ErrStorage)
}

// SetJSON marshals v and writes it under tree+key within an existing
// transaction; used by multi-tree atomic writers that already hold txn.
func SetJSON(txn *badger.Txn, tree, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := txn.Set(treeKey(tree, key), data); err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", ErrStorage, tree, key, err)
	}
	return nil
}

// GetJSON reads tree+key within an existing transaction.
func GetJSON(txn *badger.Txn, tree, entity, key string, dest any) error {
	item, err := txn.Get(treeKey(tree, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return NewNotFound(entity, key)
	}
	if err != nil {
		return fmt.Errorf("%w: get %s/%s: %v", ErrStorage, tree, key, err)
	}
	return item.Value(func(val []byte) error {
		if jsonErr := json.Unmarshal(val, dest); jsonErr != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, jsonErr)
		}
		return nil
	})
}

// DeleteKey deletes tree+key within an existing transaction.
func DeleteKey(txn *badger.Txn, tree, key string) error {
	if err := txn.Delete(treeKey(tree, key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: delete %s/%s: %v", ErrStorage, tree, key, err)
	}
	return nil
}
