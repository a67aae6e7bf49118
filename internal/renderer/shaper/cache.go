package shaper

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// DefaultCacheSize is the number of shaped lines a Shaper keeps by default.
const DefaultCacheSize = 1024

// LineCache caches shaped lines with LRU eviction.
// Entries are keyed by a hash of everything that affects shaping and verified on lookup.
type LineCache struct {
	mu        sync.Mutex
	entries   map[uint64]*cacheEntry
	maxSize   int
	tick      uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key        CacheKey
	line       *WrappedLine
	lastAccess uint64
}

// CacheKey identifies one shaping request.
type CacheKey struct {
	hash      uint64
	text      string
	fontSize  core.Pixels
	runs      []core.TextRun
	wrapWidth core.MaybePixels
}

func lineKey(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) CacheKey {
	return CacheKey{
		hash:      hashLine(text, fontSize, runs, wrapWidth),
		text:      text,
		fontSize:  fontSize,
		runs:      runs,
		wrapWidth: wrapWidth,
	}
}

func (k CacheKey) equal(other CacheKey) bool {
	if k.text != other.text || k.fontSize != other.fontSize ||
		k.wrapWidth != other.wrapWidth || len(k.runs) != len(other.runs) {
		return false
	}
	for i := range k.runs {
		if k.runs[i].Len != other.runs[i].Len || !k.runs[i].SameStyle(other.runs[i]) {
			return false
		}
	}
	return true
}

// NewLineCache creates a cache holding at most maxSize lines (0 = unlimited).
func NewLineCache(maxSize int) *LineCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &LineCache{
		entries: make(map[uint64]*cacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached line for key, or nil.
func (c *LineCache) Get(key CacheKey) *WrappedLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key.hash]
	if !ok || !entry.key.equal(key) {
		c.misses.Add(1)
		return nil
	}
	c.tick++
	entry.lastAccess = c.tick
	c.hits.Add(1)
	return entry.line
}

// Put stores a shaped line.
func (c *LineCache) Put(key CacheKey, line *WrappedLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key.hash] = &cacheEntry{
		key:        key,
		line:       line,
		lastAccess: c.tick,
	}

	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
}

// Clear removes every entry.
func (c *LineCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
}

// evict removes the least recently used entry. Must be called with the lock held.
func (c *LineCache) evict() {
	var (
		oldest uint64
		at     = uint64(math.MaxUint64)
	)
	for h, entry := range c.entries {
		if entry.lastAccess < at {
			oldest, at = h, entry.lastAccess
		}
	}
	delete(c.entries, oldest)
	c.evictions.Add(1)
}

// Size returns the number of cached lines.
func (c *LineCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *LineCache) Stats() CacheStats {
	size := c.Size()
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// ResetStats resets the statistics counters.
func (c *LineCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}

// hashLine computes an FNV-1a hash over the shaping inputs.
func hashLine(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putF32 := func(v core.Pixels) {
		putU64(uint64(math.Float32bits(float32(v))))
	}

	putU64(uint64(len(text)))
	h.Write([]byte(text))
	putF32(fontSize)
	if w, ok := wrapWidth.Get(); ok {
		putF32(w)
	} else {
		putU64(math.MaxUint64)
	}
	for _, run := range runs {
		putU64(uint64(run.Len))
		h.Write([]byte(run.Font.Family))
		putU64(uint64(run.Font.Weight)<<8 | uint64(run.Font.Style))
		h.Write([]byte(run.Color.Hex()))
		if run.Background != nil {
			h.Write([]byte(run.Background.Hex()))
		}
	}
	return h.Sum64()
}
