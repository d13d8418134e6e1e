package lookup

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-skymap/internal/catalog"
)

//go:embed documents/*.yaml
var builtinDocs embed.FS

// Local answers lookups from an in-memory catalog and a document directory.
type Local struct {
	store *catalog.Store
	docs  fs.FS

	mu     sync.Mutex
	parsed map[string]Document
}

// LocalOption configures a Local service.
type LocalOption func(*Local)

// WithDocuments reads documents from fsys instead of the built-in set.
func WithDocuments(fsys fs.FS) LocalOption {
	return func(l *Local) {
		l.docs = fsys
	}
}

// WithDocumentsDir reads documents from a directory of <ref>.yaml files.
func WithDocumentsDir(dir string) LocalOption {
	return func(l *Local) {
		if dir != "" {
			l.docs = os.DirFS(dir)
		}
	}
}

// NewLocal creates a lookup service over store.
func NewLocal(store *catalog.Store, opts ...LocalOption) *Local {
	sub, _ := fs.Sub(builtinDocs, "documents")
	l := &Local{
		store:  store,
		docs:   sub,
		parsed: make(map[string]Document),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ByID implements ObjectService.
func (l *Local) ByID(ctx context.Context, id string) (ObjectDetail, error) {
	if err := ctx.Err(); err != nil {
		return ObjectDetail{}, err
	}
	kind, ok := catalog.ParseKind(id)
	if !ok {
		return ObjectDetail{}, fmt.Errorf("object %q: %w", id, ErrNotFound)
	}
	switch kind {
	case catalog.KindStar:
		if s, ok := l.store.Star(id); ok {
			return StarDetail(s), nil
		}
	case catalog.KindConstellation:
		if c, ok := l.store.Constellation(id); ok {
			return ConstellationDetail(c), nil
		}
	}
	return ObjectDetail{}, fmt.Errorf("object %q: %w", id, ErrNotFound)
}

// ByName implements ObjectService.
func (l *Local) ByName(ctx context.Context, name string) (ObjectDetail, error) {
	if err := ctx.Err(); err != nil {
		return ObjectDetail{}, err
	}
	if s, ok := l.store.StarNamed(name); ok {
		return StarDetail(s), nil
	}
	if c, ok := l.store.ConstellationNamed(name); ok {
		return ConstellationDetail(c), nil
	}
	return ObjectDetail{}, fmt.Errorf("name %q: %w", name, ErrNotFound)
}

// Document implements DocumentService. References without a document file
// that name a catalog object get a short generated description.
func (l *Local) Document(ctx context.Context, ref string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	l.mu.Lock()
	doc, ok := l.parsed[ref]
	l.mu.Unlock()
	if ok {
		return doc, nil
	}

	doc, err := l.readDocument(ref)
	if errors.Is(err, fs.ErrNotExist) {
		doc, err = l.generate(ref)
	}
	if err != nil {
		return Document{}, err
	}

	l.mu.Lock()
	l.parsed[ref] = doc
	l.mu.Unlock()
	return doc, nil
}

func (l *Local) readDocument(ref string) (Document, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || ref == "." || ref == ".." {
		return Document{}, fmt.Errorf("document %q: %w", ref, ErrNotFound)
	}
	data, err := fs.ReadFile(l.docs, ref+".yaml")
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document %s: %w", ref, err)
	}
	if doc.Ref == "" {
		doc.Ref = ref
	}
	return doc, nil
}

func (l *Local) generate(ref string) (Document, error) {
	for _, s := range l.store.Stars() {
		if s.Ref == ref {
			return starDocument(s), nil
		}
	}
	for _, c := range l.store.Constellations() {
		if c.Ref == ref {
			return constDocument(c, l.store.Stars()), nil
		}
	}
	return Document{}, fmt.Errorf("document %q: %w", ref, ErrNotFound)
}

func starDocument(s catalog.Star) Document {
	doc := Document{Ref: s.Ref}
	doc.Sections = append(doc.Sections, Section{
		Type: "verse",
		Text: fmt.Sprintf("%s一星%s色，", s.Name, s.Color.Name()),
	})
	if s.Constellation != "" {
		doc.Sections = append(doc.Sections, Section{
			Type: "星官",
			Text: fmt.Sprintf(`<p>%s屬<span class="star-tag" id="%s">%s</span>星官。</p>`, s.Name, s.Constellation, s.Constellation),
		})
	}
	if s.ProperName != "" {
		doc.Sections = append(doc.Sections, Section{
			Type: "西名",
			Text: fmt.Sprintf("<p><b>%s</b></p>", s.ProperName),
		})
	}
	return doc
}

func constDocument(c catalog.Constellation, stars []catalog.Star) Document {
	doc := Document{Ref: c.Ref}
	var members []string
	for _, s := range stars {
		if s.Constellation == c.Name {
			members = append(members, fmt.Sprintf(`<span class="star-tag" id="%s">%s</span>`, s.Name, s.Name))
		}
	}
	doc.Sections = append(doc.Sections, Section{
		Type: "verse",
		Text: fmt.Sprintf("%s共%d星。", c.Name, len(members)),
	})
	if len(members) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Type: "星官",
			Text: "<p>所屬星：" + strings.Join(members, "、") + "</p>",
		})
	}
	return doc
}

// StaticCatalog provides an already loaded store.
type StaticCatalog struct {
	Store *catalog.Store
}

// Catalog implements CatalogProvider.
func (s StaticCatalog) Catalog(context.Context) (*catalog.Store, error) {
	if s.Store == nil {
		return catalog.Default(), nil
	}
	return s.Store, nil
}

// FileCatalog loads a GeoJSON or YAML catalog file.
type FileCatalog struct {
	Path string
}

// Catalog implements CatalogProvider.
func (f FileCatalog) Catalog(ctx context.Context) (*catalog.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := catalog.LoadFile(filepath.Clean(f.Path))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return s, nil
}
