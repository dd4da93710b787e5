package records

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// nameSnapshot is one built name index.
type nameSnapshot struct {
	// names maps lower-cased record names to the first record id carrying them.
	names map[string]string
	// built is the timestamp when this snapshot was built.
	built time.Time
}

// NameIndex caches the name to id mapping used by loadout resolution.
type NameIndex struct {
	mu   sync.RWMutex
	snap *nameSnapshot
	sf   singleflight.Group
	ttl  time.Duration
	load func(context.Context) (map[string]string, error)
}

// NewNameIndex creates an index that rebuilds through load once ttl has passed.
func NewNameIndex(ttl time.Duration, load func(context.Context) (map[string]string, error)) *NameIndex {
	return &NameIndex{ttl: ttl, load: load}
}

func (x *NameIndex) expired(s *nameSnapshot) bool {
	if s == nil || x.ttl <= 0 {
		return true // No caching
	}
	return time.Since(s.built) > x.ttl
}

// Lookup returns the id registered for name.
// Concurrent rebuilds are collapsed into one.
func (x *NameIndex) Lookup(ctx context.Context, name string) (string, bool, error) {
	snap, err := x.get(ctx)
	if err != nil {
		return "", false, err
	}
	id, ok := snap.names[strings.ToLower(name)]
	return id, ok, nil
}

func (x *NameIndex) get(ctx context.Context) (*nameSnapshot, error) {
	// Fast path
	x.mu.RLock()
	snap := x.snap
	x.mu.RUnlock()
	if !x.expired(snap) {
		return snap, nil
	}

	result, err, _ := x.sf.Do("names", func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		x.mu.RLock()
		snap := x.snap
		x.mu.RUnlock()
		if !x.expired(snap) {
			return snap, nil
		}

		names, err := x.load(ctx)
		if err != nil {
			return nil, err
		}
		fresh := &nameSnapshot{names: names, built: time.Now()}

		x.mu.Lock()
		x.snap = fresh
		x.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*nameSnapshot), nil
}

// Invalidate drops the current snapshot.
func (x *NameIndex) Invalidate() {
	x.mu.Lock()
	x.snap = nil
	x.mu.Unlock()
}
