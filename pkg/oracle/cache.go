/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cache.go
Description: Memoizing membership oracle. Answers are kept in memory and optionally persisted
to a Badger query store so repeated and resumed runs do not pay for the same query twice.
*/

package oracle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kleascm/akaylee-lstar/pkg/interfaces"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/storage"
	"github.com/sirupsen/logrus"
)

// CachingOracle memoizes a membership oracle
type CachingOracle[O comparable] struct {
	inner  interfaces.MembershipOracle[O]
	store  *storage.QueryStore[O]
	logger *logrus.Logger

	mu     sync.RWMutex
	memory map[string]O
	hits   int64
	misses int64
}

// NewCachingOracle wraps inner. store may be nil for a memory-only cache.
func NewCachingOracle[O comparable](inner interfaces.MembershipOracle[O], store *storage.QueryStore[O]) *CachingOracle[O] {
	return &CachingOracle[O]{
		inner:  inner,
		store:  store,
		logger: logrus.StandardLogger(),
		memory: make(map[string]O),
	}
}

// SetLogger replaces the logger used for store failures
func (c *CachingOracle[O]) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

// Query answers from the cache or asks the wrapped oracle
func (c *CachingOracle[O]) Query(ctx context.Context, seq sequence.Sequence) (O, error) {
	key := seq.Key()

	c.mu.RLock()
	out, ok := c.memory[key]
	c.mu.RUnlock()
	if ok {
		atomic.AddInt64(&c.hits, 1)
		return out, nil
	}

	if c.store != nil {
		stored, found, err := c.store.Get(seq)
		if err != nil {
			c.logger.WithError(err).WithField("sequence", seq.String()).Warn("Query cache read failed")
		} else if found {
			atomic.AddInt64(&c.hits, 1)
			c.remember(key, stored)
			return stored, nil
		}
	}

	out, err := c.inner.Query(ctx, seq)
	if err != nil {
		return out, err
	}
	atomic.AddInt64(&c.misses, 1)
	c.remember(key, out)
	if c.store != nil {
		if err := c.store.Put(seq, out); err != nil {
			c.logger.WithError(err).WithField("sequence", seq.String()).Warn("Query cache write failed")
		}
	}
	return out, nil
}

func (c *CachingOracle[O]) remember(key string, out O) {
	c.mu.Lock()
	c.memory[key] = out
	c.mu.Unlock()
}

// Hits returns the number of queries answered from the cache
func (c *CachingOracle[O]) Hits() int64 {
	return atomic.LoadInt64(&c.hits)
}

// Misses returns the number of queries forwarded to the wrapped oracle
func (c *CachingOracle[O]) Misses() int64 {
	return atomic.LoadInt64(&c.misses)
}
