// Package lookup provides the object, document, catalog and focus
// persistence services the chart consumes.
package lookup

import (
	"context"
	"errors"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/sky"
)

// ErrNotFound is returned when an id, name or document reference is unknown.
var ErrNotFound = errors.New("not found")

// ObjectDetail describes a star or constellation returned by a lookup.
type ObjectDetail struct {
	Kind  catalog.Kind
	ID    string
	Name  string
	Coord sky.Coord
	Ref   string // document reference

	// Star fields
	Constellation string
	ProperName    string
	Color         catalog.ColorLevel

	// Constellation fields
	Level catalog.Level
}

// Section is one ordered block of a document. Text is trusted markup.
type Section struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// Document is the descriptive text of an object.
type Document struct {
	Ref      string    `json:"ref" yaml:"ref"`
	Sections []Section `json:"paragraph" yaml:"paragraph"`
}

// Lead returns the distinguished first section.
func (d Document) Lead() (Section, bool) {
	if len(d.Sections) == 0 {
		return Section{}, false
	}
	return d.Sections[0], true
}

// Body returns the sections after the lead, in order.
func (d Document) Body() []Section {
	if len(d.Sections) <= 1 {
		return nil
	}
	return d.Sections[1:]
}

// ObjectService resolves objects by id or by exact display name.
type ObjectService interface {
	// ByID returns the object with id "<kind>-<n>" or ErrNotFound.
	ByID(ctx context.Context, id string) (ObjectDetail, error)
	// ByName returns the star, else the constellation, named name, or ErrNotFound.
	ByName(ctx context.Context, name string) (ObjectDetail, error)
}

// DocumentService returns documents by reference.
type DocumentService interface {
	Document(ctx context.Context, ref string) (Document, error)
}

// CatalogProvider loads the catalog.
type CatalogProvider interface {
	Catalog(ctx context.Context) (*catalog.Store, error)
}

// FocusPersistence stores the current focus id outside the process so it
// can be restored or shared. An empty id means no focus.
type FocusPersistence interface {
	Load() (string, error)
	Save(id string) error
	Clear() error
}

// StarDetail converts a catalog star.
func StarDetail(s catalog.Star) ObjectDetail {
	return ObjectDetail{
		Kind:          catalog.KindStar,
		ID:            s.ID,
		Name:          s.Name,
		Coord:         s.Coord,
		Ref:           s.Ref,
		Constellation: s.Constellation,
		ProperName:    s.ProperName,
		Color:         s.Color,
	}
}

// ConstellationDetail converts a catalog constellation.
func ConstellationDetail(c catalog.Constellation) ObjectDetail {
	return ObjectDetail{
		Kind:  catalog.KindConstellation,
		ID:    c.ID,
		Name:  c.Name,
		Coord: c.Coord,
		Ref:   c.Ref,
		Level: c.Level,
	}
}
