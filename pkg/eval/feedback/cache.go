package feedback

// CacheState is the state of a field inline cache.
type CacheState uint8

const (
	Uninitialized CacheState = iota
	Monomorphic
	Polymorphic
	Megamorphic
)

func (s CacheState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Monomorphic:
		return "monomorphic"
	case Polymorphic:
		return "polymorphic"
	case Megamorphic:
		return "megamorphic"
	}
	return "unknown"
}

// MaxCacheEntries is the number of shapes a cache holds before it turns
// megamorphic.
const MaxCacheEntries = 4

type cacheEntry struct {
	shape, field string
	slot         int
	hits         uint64
	// Value of the cache clock at the last hit or insertion.
	lastUse uint64
}

// FieldCache is the inline cache of one field access site. It maps a value
// shape and field name to the slot the field was found at.
type FieldCache struct {
	state   CacheState
	entries []cacheEntry
	clock   uint64

	Hits, Misses uint64
}

// State returns the current state of the cache.
func (c *FieldCache) State() CacheState { return c.state }

// Len returns the number of cached shapes.
func (c *FieldCache) Len() int { return len(c.entries) }

// Lookup returns the cached slot for a field of a shape.
func (c *FieldCache) Lookup(shape, field string) (int, bool) {
	c.clock++
	for i := range c.entries {
		e := &c.entries[i]
		if e.shape == shape && e.field == field {
			e.hits++
			e.lastUse = c.clock
			c.Hits++
			return e.slot, true
		}
	}
	c.Misses++
	return 0, false
}

// Insert caches the slot for a field of a shape after a miss. A full
// polymorphic cache turns megamorphic, and a megamorphic cache evicts its
// least used entry to make room.
func (c *FieldCache) Insert(shape, field string, slot int) {
	c.clock++
	for i := range c.entries {
		if c.entries[i].shape == shape && c.entries[i].field == field {
			c.entries[i].slot = slot
			return
		}
	}
	e := cacheEntry{shape, field, slot, 0, c.clock}
	if len(c.entries) < MaxCacheEntries {
		c.entries = append(c.entries, e)
		old := c.state
		if len(c.entries) == 1 {
			c.state = Monomorphic
		} else {
			c.state = Polymorphic
		}
		if old != c.state {
			logger.Printf("field cache %s -> %s", old, c.state)
		}
		return
	}
	if c.state != Megamorphic {
		logger.Printf("field cache %s -> %s", c.state, Megamorphic)
		c.state = Megamorphic
	}
	c.entries[c.leastUsed()] = e
}

func (c *FieldCache) leastUsed() int {
	victim := 0
	for i, e := range c.entries {
		v := c.entries[victim]
		if e.hits < v.hits || (e.hits == v.hits && e.lastUse < v.lastUse) {
			victim = i
		}
	}
	return victim
}

// Caches holds the field inline caches of an interpreter.
type Caches struct {
	sites map[SiteID]*FieldCache
}

// NewCaches creates an empty set of caches.
func NewCaches() *Caches {
	return &Caches{make(map[SiteID]*FieldCache)}
}

// Site returns the cache of a site, creating it if needed.
func (cs *Caches) Site(id SiteID) *FieldCache {
	c := cs.sites[id]
	if c == nil {
		c = &FieldCache{}
		cs.sites[id] = c
	}
	return c
}

// Clear drops all caches.
func (cs *Caches) Clear() {
	cs.sites = make(map[SiteID]*FieldCache)
}

// CacheStats summarizes the inline caches.
type CacheStats struct {
	Sites        int
	Hits, Misses uint64
	Monomorphic  int
	Polymorphic  int
	Megamorphic  int
}

// HitRate returns the fraction of lookups that hit, or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Stats returns a summary of all caches.
func (cs *Caches) Stats() CacheStats {
	s := CacheStats{Sites: len(cs.sites)}
	for _, c := range cs.sites {
		s.Hits += c.Hits
		s.Misses += c.Misses
		switch c.state {
		case Monomorphic:
			s.Monomorphic++
		case Polymorphic:
			s.Polymorphic++
		case Megamorphic:
			s.Megamorphic++
		}
	}
	return s
}
