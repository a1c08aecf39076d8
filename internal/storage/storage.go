package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when no result is stored for a key.
var ErrNotFound = errors.New("storage: not found")

// keyPrefix separates perft results from other keys.
const keyPrefix = "perft/"

// Result is a stored perft count for one position and depth.
type Result struct {
	Hash   uint64            `json:"hash"`
	Depth  int               `json:"depth"`
	Nodes  uint64            `json:"nodes"`
	FEN    string            `json:"fen,omitempty"`
	Divide map[string]uint64 `json:"divide,omitempty"`
}

// Store wraps BadgerDB for persistent perft results.
// It is safe for concurrent use.
type Store struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens the store in dir. An empty dir uses the default database directory.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a store that lives only in memory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		encoder.Close()
		decoder.Close()
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Store{db: db, encoder: encoder, decoder: decoder}, nil
}

// Close closes the database
func (s *Store) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func key(hash uint64, depth int) []byte {
	k := make([]byte, len(keyPrefix)+9)
	copy(k, keyPrefix)
	binary.BigEndian.PutUint64(k[len(keyPrefix):], hash)
	k[len(k)-1] = byte(depth)
	return k
}

// Put stores a result under its hash and depth.
func (s *Store) Put(r *Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	compressed := s.encoder.EncodeAll(data, nil)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(r.Hash, r.Depth), compressed)
	})
}

// Get loads the result for a hash and depth, or returns ErrNotFound.
func (s *Store) Get(hash uint64, depth int) (*Result, error) {
	r := &Result{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(hash, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data, err := s.decoder.DecodeAll(val, nil)
			if err != nil {
				return fmt.Errorf("decompress %x: %w", item.Key(), err)
			}
			return json.Unmarshal(data, r)
		})
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Count returns the number of stored results.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
