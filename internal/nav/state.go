// Package nav is the chart's navigation state machine. It owns the view
// state and decides how search input, selections, label clicks and lookup
// responses move the chart between Idle, Searching and Focused.
package nav

import (
	"fmt"

	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/search"
)

// State is one of Idle, Searching or Focused.
type State interface {
	fmt.Stringer
	navState()
}

// Idle is the default overview.
type Idle struct{}

// Searching holds a non-empty query and its candidates, capped at
// search.DisplayLimit per kind.
type Searching struct {
	Query          string
	Stars          []search.Entry
	Constellations []search.Entry

	// Uncapped match counts.
	StarMatches  int
	ConstMatches int
}

// Focused is a selected object and, once fetched, its document.
type Focused struct {
	Target         lookup.ObjectDetail
	Document       lookup.Document
	DocumentLoaded bool
}

func (Idle) navState()      {}
func (Searching) navState() {}
func (Focused) navState()   {}

func (Idle) String() string { return "idle" }

func (s Searching) String() string {
	return fmt.Sprintf("searching %q (%d stars, %d constellations)", s.Query, s.StarMatches, s.ConstMatches)
}

func (f Focused) String() string {
	return fmt.Sprintf("focused %s %s", f.Target.ID, f.Target.Name)
}

// Candidates returns the displayed stars followed by the displayed
// constellations.
func (s Searching) Candidates() []search.Entry {
	out := make([]search.Entry, 0, len(s.Stars)+len(s.Constellations))
	out = append(out, s.Stars...)
	return append(out, s.Constellations...)
}
