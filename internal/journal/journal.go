// Package journal persists declared facts in BadgerDB so a session can be
// restored in declaration order.
package journal

import (
	"context"
	"encoding/binary"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanquery/pkg/logic"
	"github.com/gitrdm/gokanquery/pkg/reader"
)

var (
	// ErrClosed is returned by operations on a closed journal.
	ErrClosed = errors.New("journal: closed")

	// ErrCorrupted is returned when a stored entry cannot be decoded.
	ErrCorrupted = errors.New("journal: corrupted entry")
)

var factPrefix = []byte("fact/")

// Config configures a journal.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory keeps the journal in memory. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every append.
	SyncWrites bool

	// Logger receives badger's internal log output. nil silences it.
	Logger *zap.Logger
}

// badgerLogger adapts zap to badger's Logger interface.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.s.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}

// Journal is an append-only log of facts keyed by sequence number.
type Journal struct {
	db     *badger.DB
	logger *zap.Logger
	seq    atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// Open opens the journal described by cfg, creating the directory if needed.
func Open(cfg Config) (*Journal, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("journal: path is required for a persistent journal")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, errors.Wrapf(err, "journal: create directory %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
		opts = opts.WithLogger(nil)
	} else {
		opts = opts.WithLogger(badgerLogger{s: logger.Named("badger").Sugar()})
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "journal: open badger")
	}

	j := &Journal{db: db, logger: logger}
	if err := j.initSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("journal opened",
		zap.String("path", cfg.Path),
		zap.Bool("in_memory", cfg.InMemory),
		zap.Uint64("entries", j.seq.Load()))
	return j, nil
}

// initSeq finds the highest sequence number already stored.
func (j *Journal) initSeq() error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(key(^uint64(0)))
		if it.ValidForPrefix(factPrefix) {
			seq, ok := seqOf(it.Item().Key())
			if !ok {
				return errors.Wrapf(ErrCorrupted, "key %q", it.Item().Key())
			}
			j.seq.Store(seq)
		}
		return nil
	})
}

// Append records f after every previously appended fact.
func (j *Journal) Append(ctx context.Context, f *logic.Fact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}

	seq := j.seq.Add(1)
	err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(seq), []byte(f.String()))
	})
	if err != nil {
		return errors.Wrapf(err, "journal: append %d", seq)
	}
	return nil
}

// Replay adds every journaled fact to store in the order it was appended and
// returns the number of facts replayed.
func (j *Journal) Replay(ctx context.Context, store *logic.Store) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return 0, ErrClosed
	}

	n := 0
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(factPrefix); it.ValidForPrefix(factPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			seq, ok := seqOf(item.Key())
			if !ok {
				return errors.Wrapf(ErrCorrupted, "key %q", item.Key())
			}

			err := item.Value(func(val []byte) error {
				f, err := decode(seq, val)
				if err != nil {
					return err
				}
				return store.AddFact(f)
			})
			if err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return n, errors.Wrap(err, "journal: replay")
	}

	j.logger.Debug("journal replayed", zap.Int("facts", n))
	return n, nil
}

// Len returns the number of facts appended over the journal's lifetime.
func (j *Journal) Len() uint64 {
	return j.seq.Load()
}

// Close closes the underlying database. Further operations fail with
// ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

func decode(seq uint64, val []byte) (*logic.Fact, error) {
	stmts, err := reader.ParseStatements("journal", string(val))
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupted, "entry %d: %v", seq, err)
	}
	if len(stmts) != 1 || stmts[0].Kind != reader.KindFact {
		return nil, errors.Wrapf(ErrCorrupted, "entry %d: not a single fact", seq)
	}
	return stmts[0].Fact, nil
}

func key(seq uint64) []byte {
	k := make([]byte, len(factPrefix)+8)
	copy(k, factPrefix)
	binary.BigEndian.PutUint64(k[len(factPrefix):], seq)
	return k
}

func seqOf(k []byte) (uint64, bool) {
	if len(k) != len(factPrefix)+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(k[len(factPrefix):]), true
}
