package feedback

import (
	"fmt"
	"testing"
)

func TestFieldCache_States(t *testing.T) {
	var c FieldCache
	if c.State() != Uninitialized {
		t.Fatalf("new cache is %v", c.State())
	}
	if _, ok := c.Lookup("Point", "x"); ok {
		t.Fatalf("empty cache hit")
	}
	c.Insert("Point", "x", 0)
	if c.State() != Monomorphic {
		t.Errorf("after one insert: %v", c.State())
	}
	if slot, ok := c.Lookup("Point", "x"); !ok || slot != 0 {
		t.Errorf("Lookup = %d, %v", slot, ok)
	}
	// Same shape, different field is a different entry.
	if _, ok := c.Lookup("Point", "y"); ok {
		t.Errorf("hit for uncached field")
	}
	for i, shape := range []string{"A", "B", "C"} {
		c.Insert(shape, "x", i+1)
	}
	if c.State() != Polymorphic || c.Len() != MaxCacheEntries {
		t.Errorf("after four shapes: %v with %d entries", c.State(), c.Len())
	}
	c.Insert("D", "x", 9)
	if c.State() != Megamorphic || c.Len() != MaxCacheEntries {
		t.Errorf("after five shapes: %v with %d entries", c.State(), c.Len())
	}
	if c.Hits != 1 || c.Misses != 2 {
		t.Errorf("hits %d, misses %d", c.Hits, c.Misses)
	}
}

func TestFieldCache_EvictsLeastUsed(t *testing.T) {
	var c FieldCache
	for i := 0; i < MaxCacheEntries; i++ {
		c.Insert(fmt.Sprint("S", i), "f", i)
	}
	// Every entry but S2 gets a hit.
	for _, s := range []string{"S0", "S1", "S3"} {
		c.Lookup(s, "f")
	}
	c.Insert("S4", "f", 4)
	if _, ok := c.Lookup("S2", "f"); ok {
		t.Errorf("least used entry S2 survived")
	}
	for _, s := range []string{"S0", "S1", "S3", "S4"} {
		if _, ok := c.Lookup(s, "f"); !ok {
			t.Errorf("entry %s was evicted", s)
		}
	}
}

func TestCaches(t *testing.T) {
	cs := NewCaches()
	cs.Site(1).Insert("A", "x", 0)
	cs.Site(1).Lookup("A", "x")
	cs.Site(2).Insert("A", "x", 0)
	cs.Site(2).Insert("B", "x", 0)
	cs.Site(2).Lookup("C", "x")

	s := cs.Stats()
	if s.Sites != 2 || s.Monomorphic != 1 || s.Polymorphic != 1 || s.Hits != 1 || s.Misses != 1 {
		t.Errorf("got %+v", s)
	}
	if s.HitRate() != 0.5 {
		t.Errorf("HitRate = %v", s.HitRate())
	}
	cs.Clear()
	if s := cs.Stats(); s.Sites != 0 || s.HitRate() != 0 {
		t.Errorf("after Clear: %+v", s)
	}
}
