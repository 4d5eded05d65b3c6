package dataset

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"churnboard/adapters/postgres"
	"churnboard/domain/customer"
	"churnboard/internal/errors"
	"churnboard/internal/logging"
	"churnboard/ports"

	"golang.org/x/sync/singleflight"
)

var logger = logging.New("Cache")

// Info describes a cached table.
type Info struct {
	Location    string    `json:"location"`
	Fingerprint string    `json:"fingerprint"`
	Rows        int       `json:"rows"`
	LoadedAt    time.Time `json:"loaded_at"`
	Loads       int       `json:"loads"`
}

type entry struct {
	source      ports.CustomerSource
	fingerprint string
	table       *customer.Table
	loads       int

	// leases counts Loads using source; it is closed only after they finish.
	leases sync.WaitGroup
}

// Cache memoizes loaded tables per source location. A cached table is
// returned as long as the source fingerprint is unchanged; concurrent cold
// loads of one location share a single read.
type Cache struct {
	open ports.SourceOpener

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
}

// NewCache creates a cache that resolves locations with open. A nil opener
// means OpenSource.
func NewCache(open ports.SourceOpener) *Cache {
	if open == nil {
		open = OpenSource
	}
	return &Cache{
		open:    open,
		entries: make(map[string]*entry),
	}
}

// Key normalizes a location: file paths become absolute, URLs are kept.
func Key(location string) string {
	if postgres.IsLocation(location) {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

// Load returns the table for location, reading the source only when nothing
// is cached or the source fingerprint changed.
func (c *Cache) Load(ctx context.Context, location string) (*customer.Table, error) {
	key := Key(location)

	e, err := c.acquire(ctx, key, location)
	if err != nil {
		return nil, err
	}
	defer e.leases.Done()
	source := e.source

	fingerprint, err := source.Fingerprint(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check dataset %s", location)
	}

	if table := c.cached(key, fingerprint); table != nil {
		logger.Debugf("Hit %s (%s)", key, fingerprint)
		return table, nil
	}

	v, err, _ := c.group.Do(key+"\x00"+fingerprint, func() (interface{}, error) {
		if table := c.cached(key, fingerprint); table != nil {
			return table, nil
		}
		return c.read(ctx, key, source, fingerprint)
	})
	if err != nil {
		return nil, err
	}
	return v.(*customer.Table), nil
}

// Reload drops any cached table for location and loads it again.
func (c *Cache) Reload(ctx context.Context, location string) (*customer.Table, error) {
	c.Invalidate(location)
	return c.Load(ctx, location)
}

// Invalidate forgets location. The next Load reopens and rereads the source.
// The old source is closed once Loads already using it have returned.
func (c *Cache) Invalidate(location string) {
	key := Key(location)

	c.mu.Lock()
	e, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if ok {
		e.leases.Wait()
		closeSource(e.source)
		logger.Infof("Invalidated %s", key)
	}
}

// Info reports what is cached for location.
func (c *Cache) Info(location string) (Info, bool) {
	key := Key(location)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.table == nil {
		return Info{}, false
	}
	return Info{
		Location:    key,
		Fingerprint: e.fingerprint,
		Rows:        e.table.Len(),
		LoadedAt:    e.table.LoadedAt(),
		Loads:       e.loads,
	}, true
}

// Close releases every open source, waiting for in-flight Loads first.
func (c *Cache) Close() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*entry)
	c.mu.Unlock()

	for _, e := range entries {
		e.leases.Wait()
		closeSource(e.source)
	}
}

func (c *Cache) cached(key, fingerprint string) *customer.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && e.fingerprint == fingerprint {
		return e.table
	}
	return nil
}

// acquire returns the entry for key, opening its source if needed, with a
// lease held. The caller must call e.leases.Done.
func (c *Cache) acquire(ctx context.Context, key, location string) (*entry, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.leases.Add(1)
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	source, err := c.open(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", location)
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{source: source}
		c.entries[key] = e
	}
	e.leases.Add(1)
	c.mu.Unlock()

	if e.source != source {
		closeSource(source)
	}
	return e, nil
}

func (c *Cache) read(ctx context.Context, key string, source ports.CustomerSource, fingerprint string) (*customer.Table, error) {
	start := time.Now()
	table, err := source.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", source.Location())
	}
	logger.Infof("Loaded %s (%d rows) in %.2fms", key, table.Len(), float64(time.Since(start).Nanoseconds())/1e6)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.source != source {
		// invalidated while reading; hand the table out without caching it
		return table, nil
	}
	e.fingerprint = fingerprint
	e.table = table
	e.loads++
	return table, nil
}

func closeSource(source ports.CustomerSource) {
	if closer, ok := source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warnf("Failed to close %s: %v", source.Location(), err)
		}
	}
}
