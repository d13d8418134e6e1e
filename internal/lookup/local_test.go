package lookup

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skymap/internal/catalog"
)

func TestLocal_ByID(t *testing.T) {
	l := NewLocal(catalog.Default())
	ctx := context.Background()

	d, err := l.ByID(ctx, "star-0001")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindStar, d.Kind)
	assert.Equal(t, "天樞", d.Name)
	assert.Equal(t, "北斗", d.Constellation)
	assert.Equal(t, "star-0001", d.Ref)

	d, err = l.ByID(ctx, "const-0002")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindConstellation, d.Kind)
	assert.Equal(t, "參", d.Name)

	for _, id := range []string{"star-9999", "const-9999", "line-0001", "", "garbage"} {
		_, err := l.ByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestLocal_ByName(t *testing.T) {
	l := NewLocal(catalog.Default())
	ctx := context.Background()

	d, err := l.ByName(ctx, "天狼")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindStar, d.Kind, "stars win over constellations")

	d, err = l.ByName(ctx, "北斗")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindConstellation, d.Kind)

	_, err = l.ByName(ctx, "玉井")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_CancelledContext(t *testing.T) {
	l := NewLocal(catalog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.ByID(ctx, "star-0001")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = l.Document(ctx, "star-0001")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_BuiltinDocument(t *testing.T) {
	l := NewLocal(catalog.Default())

	doc, err := l.Document(context.Background(), "const-0001")
	require.NoError(t, err)

	lead, ok := doc.Lead()
	require.True(t, ok)
	assert.Equal(t, "verse", lead.Type)
	assert.True(t, strings.HasPrefix(lead.Text, "北斗之宿七星明"))
	require.Len(t, doc.Body(), 2)
	assert.Equal(t, "星官", doc.Body()[0].Type)
	assert.Contains(t, doc.Body()[0].Text, `class="star-tag" id="天樞"`)
	assert.Equal(t, "指極", doc.Body()[1].Type)
}

func TestLocal_GeneratedDocument(t *testing.T) {
	l := NewLocal(catalog.Default())

	// 參宿四 has no document file.
	doc, err := l.Document(context.Background(), "star-0011")
	require.NoError(t, err)
	lead, _ := doc.Lead()
	assert.Contains(t, lead.Text, "參宿四")
	require.NotEmpty(t, doc.Body())
	assert.Equal(t, "星官", doc.Body()[0].Type)
	assert.Contains(t, doc.Body()[0].Text, `id="參"`)

	doc, err = l.Document(context.Background(), "const-0003")
	require.NoError(t, err)
	lead, _ = doc.Lead()
	assert.Equal(t, "心共3星。", lead.Text)

	_, err = l.Document(context.Background(), "nothing-here")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Document(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_WithDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"star-0001.yaml": {Data: []byte("paragraph:\n  - type: verse\n    text: custom\n")},
		"broken.yaml":    {Data: []byte("paragraph: [")},
	}
	l := NewLocal(catalog.Default(), WithDocuments(fsys))

	doc, err := l.Document(context.Background(), "star-0001")
	require.NoError(t, err)
	assert.Equal(t, "star-0001", doc.Ref)
	lead, _ := doc.Lead()
	assert.Equal(t, "custom", lead.Text)

	_, err = l.Document(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDocument_LeadAndBody(t *testing.T) {
	var empty Document
	_, ok := empty.Lead()
	assert.False(t, ok)
	assert.Nil(t, empty.Body())

	one := Document{Sections: []Section{{Type: "verse", Text: "a"}}}
	_, ok = one.Lead()
	assert.True(t, ok)
	assert.Nil(t, one.Body())
}

func TestCatalogProviders(t *testing.T) {
	s, err := StaticCatalog{}.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, s.Stars())

	_, err = FileCatalog{Path: t.TempDir() + "/missing.json"}.Catalog(context.Background())
	assert.Error(t, err)
}
