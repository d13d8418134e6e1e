// Package search filters catalog names for the search box.
package search

import (
	"strings"

	"github.com/litescript/ls-skymap/internal/catalog"
)

// DisplayLimit is how many matches per kind are shown as candidates.
const DisplayLimit = 3

// Entry is one searchable name.
type Entry struct {
	ID   string
	Name string
	Kind catalog.Kind
}

// Index holds the star and constellation names in catalog order.
type Index struct {
	stars  []Entry
	consts []Entry
}

// New builds an index over the store's stars and constellations.
func New(store *catalog.Store) *Index {
	idx := &Index{}
	for _, s := range store.Stars() {
		idx.stars = append(idx.stars, Entry{ID: s.ID, Name: s.Name, Kind: catalog.KindStar})
	}
	for _, c := range store.Constellations() {
		idx.consts = append(idx.consts, Entry{ID: c.ID, Name: c.Name, Kind: catalog.KindConstellation})
	}
	return idx
}

// Filter returns every entry whose name contains q, stars and constellations
// separately, in declaration order. Matching is case-sensitive and exact on
// code points. An empty query matches nothing.
func (idx *Index) Filter(q string) (stars, consts []Entry) {
	if q == "" {
		return nil, nil
	}
	return filter(idx.stars, q), filter(idx.consts, q)
}

func filter(entries []Entry, q string) []Entry {
	var out []Entry
	for _, e := range entries {
		if strings.Contains(e.Name, q) {
			out = append(out, e)
		}
	}
	return out
}

// Top caps entries at n for presentation.
func Top(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// Exact returns the entry whose name equals q, preferring stars.
func (idx *Index) Exact(q string) (Entry, bool) {
	if q == "" {
		return Entry{}, false
	}
	for _, list := range [][]Entry{idx.stars, idx.consts} {
		for _, e := range list {
			if e.Name == q {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// First returns the first entry containing q, preferring stars.
func (idx *Index) First(q string) (Entry, bool) {
	stars, consts := idx.Filter(q)
	if len(stars) > 0 {
		return stars[0], true
	}
	if len(consts) > 0 {
		return consts[0], true
	}
	return Entry{}, false
}

// Resolve picks the entry a submitted query refers to: an exact name match
// first, then the first substring match.
func (idx *Index) Resolve(q string) (Entry, bool) {
	if e, ok := idx.Exact(q); ok {
		return e, true
	}
	return idx.First(q)
}

// Len returns the number of stars and constellations indexed.
func (idx *Index) Len() (stars, consts int) {
	return len(idx.stars), len(idx.consts)
}
