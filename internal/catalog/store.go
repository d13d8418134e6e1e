package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/litescript/ls-skymap/internal/sky"
)

// ErrInvalid reports a catalog that fails validation.
var ErrInvalid = errors.New("invalid catalog")

// Store is the loaded catalog. It is never modified after New returns, so a
// single Store can be shared by every component.
type Store struct {
	stars  []Star
	consts []Constellation
	lines  []Line
	bands  []Band

	starByID  map[string]int
	constByID map[string]int
}

// New validates the collections and builds a store. Ids must be unique within
// their kind and every coordinate finite with latitude in [-90, 90].
func New(stars []Star, consts []Constellation, lines []Line, bands []Band) (*Store, error) {
	s := &Store{
		stars:     slices.Clone(stars),
		consts:    slices.Clone(consts),
		lines:     slices.Clone(lines),
		bands:     slices.Clone(bands),
		starByID:  make(map[string]int, len(stars)),
		constByID: make(map[string]int, len(consts)),
	}

	for i, st := range s.stars {
		if st.ID == "" {
			return nil, fmt.Errorf("%w: star %d has no id", ErrInvalid, i)
		}
		if _, dup := s.starByID[st.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate star id %s", ErrInvalid, st.ID)
		}
		if !validCoord(st.Coord) {
			return nil, fmt.Errorf("%w: star %s at %v", ErrInvalid, st.ID, st.Coord)
		}
		s.starByID[st.ID] = i
	}

	for i, c := range s.consts {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: constellation %d has no id", ErrInvalid, i)
		}
		if _, dup := s.constByID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate constellation id %s", ErrInvalid, c.ID)
		}
		if !validCoord(c.Coord) {
			return nil, fmt.Errorf("%w: constellation %s at %v", ErrInvalid, c.ID, c.Coord)
		}
		if err := validPath(c.Boundary); err != nil {
			return nil, fmt.Errorf("%w: constellation %s boundary: %v", ErrInvalid, c.ID, err)
		}
		s.consts[i].Level = c.Level.Clamp()
		s.constByID[c.ID] = i
	}

	seen := make(map[string]bool, len(s.lines))
	for _, l := range s.lines {
		if l.ID == "" || seen[l.ID] {
			return nil, fmt.Errorf("%w: line id %q missing or duplicated", ErrInvalid, l.ID)
		}
		seen[l.ID] = true
		for _, seg := range l.Segments {
			if err := validPath(seg); err != nil {
				return nil, fmt.Errorf("%w: line %s: %v", ErrInvalid, l.ID, err)
			}
		}
	}

	clear(seen)
	for _, b := range s.bands {
		if b.ID == "" || seen[b.ID] {
			return nil, fmt.Errorf("%w: band id %q missing or duplicated", ErrInvalid, b.ID)
		}
		seen[b.ID] = true
		for _, ring := range b.Rings {
			if err := validPath(ring); err != nil {
				return nil, fmt.Errorf("%w: band %s: %v", ErrInvalid, b.ID, err)
			}
		}
	}

	return s, nil
}

func validCoord(c sky.Coord) bool {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || math.IsNaN(c.Lat) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90
}

func validPath(coords []sky.Coord) error {
	for _, c := range coords {
		if !validCoord(c) {
			return fmt.Errorf("coordinate %v out of range", c)
		}
	}
	return nil
}

// Stars returns the stars in declaration order.
func (s *Store) Stars() []Star { return slices.Clone(s.stars) }

// Constellations returns the constellations in declaration order.
func (s *Store) Constellations() []Constellation { return slices.Clone(s.consts) }

// Lines returns the asterism lines in declaration order.
func (s *Store) Lines() []Line { return slices.Clone(s.lines) }

// Bands returns the background bands in declaration order.
func (s *Store) Bands() []Band { return slices.Clone(s.bands) }

// Star looks up a star by id.
func (s *Store) Star(id string) (Star, bool) {
	i, ok := s.starByID[id]
	if !ok {
		return Star{}, false
	}
	return s.stars[i], true
}

// Constellation looks up a constellation by id.
func (s *Store) Constellation(id string) (Constellation, bool) {
	i, ok := s.constByID[id]
	if !ok {
		return Constellation{}, false
	}
	return s.consts[i], true
}

// StarNamed returns the first star whose display name is exactly name.
func (s *Store) StarNamed(name string) (Star, bool) {
	for _, st := range s.stars {
		if st.Name == name {
			return st, true
		}
	}
	return Star{}, false
}

// ConstellationNamed returns the first constellation whose display name is exactly name.
func (s *Store) ConstellationNamed(name string) (Constellation, bool) {
	for _, c := range s.consts {
		if c.Name == name {
			return c, true
		}
	}
	return Constellation{}, false
}

// Nearest returns the star closest to c and its separation in degrees.
func (s *Store) Nearest(c sky.Coord) (Star, float64, bool) {
	best, bestSep := -1, math.Inf(1)
	for i, st := range s.stars {
		if sep := sky.Separation(c, st.Coord); sep < bestSep {
			best, bestSep = i, sep
		}
	}
	if best < 0 {
		return Star{}, 0, false
	}
	return s.stars[best], bestSep, true
}

// Featured returns the star of the day for the local date of now.
func (s *Store) Featured(now time.Time) (Star, bool) {
	if len(s.stars) == 0 {
		return Star{}, false
	}
	return s.stars[FeaturedIndex(now, len(s.stars))], true
}

// FeaturedIndex picks an index in [0, n) that changes daily. Months are
// treated as 30 days and December wraps to 0.
func FeaturedIndex(now time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	month := int(now.Month()) % 12
	return (month*30 + now.Day()) % n
}
