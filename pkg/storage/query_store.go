/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: query_store.go
Description: Persistent store of membership query answers. Keys are namespaced per target so
one cache directory can serve several targets; values are JSON encoded.
*/

package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
)

// QueryStore maps sequences to answers for one target
type QueryStore[O comparable] struct {
	db        *DB
	namespace string
}

// NewQueryStore creates a store for the given target namespace
func NewQueryStore[O comparable](db *DB, namespace string) *QueryStore[O] {
	return &QueryStore[O]{db: db, namespace: namespace}
}

func (s *QueryStore[O]) key(seq sequence.Sequence) []byte {
	return []byte("mq/" + s.namespace + "/" + seq.Key())
}

// Get returns the stored answer for seq; found is false when none is stored
func (s *QueryStore[O]) Get(seq sequence.Sequence) (out O, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(seq))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &out); err != nil {
				return fmt.Errorf("corrupt cache entry for %s: %w", seq, err)
			}
			found = true
			return nil
		})
	})
	return out, found, err
}

// Put stores the answer for seq
func (s *QueryStore[O]) Put(seq sequence.Sequence, out O) error {
	val, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode answer for %s: %w", seq, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(seq), val)
	})
}

// Count returns the number of answers stored for this namespace
func (s *QueryStore[O]) Count() (int, error) {
	count := 0
	prefix := []byte("mq/" + s.namespace + "/")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
