package lookup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := catalog.Default()
	local := lookup.NewLocal(store)
	h := server.New(store, local, local, zerolog.Nop())
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_MatchesLocal(t *testing.T) {
	srv := newTestServer(t)
	client := lookup.NewClient(srv.URL+"/", lookup.WithTimeout(5*time.Second))
	local := lookup.NewLocal(catalog.Default())
	ctx := context.Background()

	for _, id := range []string{"star-0001", "star-0033", "const-0002"} {
		want, err := local.ByID(ctx, id)
		require.NoError(t, err)
		got, err := client.ByID(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	got, err := client.ByName(ctx, "北斗")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindConstellation, got.Kind)

	doc, err := client.Document(ctx, "const-0001")
	require.NoError(t, err)
	want, err := local.Document(ctx, "const-0001")
	require.NoError(t, err)
	assert.Equal(t, want.Sections, doc.Sections)
}

func TestClient_NotFound(t *testing.T) {
	srv := newTestServer(t)
	client := lookup.NewClient(srv.URL)
	ctx := context.Background()

	_, err := client.ByID(ctx, "star-9999")
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	_, err = client.ByID(ctx, "nonsense")
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	_, err = client.ByName(ctx, "玉井")
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	_, err = client.Document(ctx, "missing-ref")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
}

func TestClient_Catalog(t *testing.T) {
	srv := newTestServer(t)
	client := lookup.NewClient(srv.URL)

	s, err := client.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Stars(), len(catalog.Default().Stars()))
	assert.Len(t, s.Lines(), len(catalog.Default().Lines()))
}

func TestClient_StringCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"star":{"star_id":"star-0007","display_name":"搖光","lon":"206.885","lat":"49.313","filename":"yaoguang","color":"黃"}}`))
	}))
	defer srv.Close()

	d, err := lookup.NewClient(srv.URL).ByID(context.Background(), "star-0007")
	require.NoError(t, err)
	assert.InDelta(t, 206.885, d.Coord.Lon, 1e-9)
	assert.InDelta(t, 49.313, d.Coord.Lat, 1e-9)
	assert.Equal(t, "yaoguang", d.Ref)
	assert.Equal(t, catalog.ColorYellow, d.Color)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := lookup.NewClient(srv.URL).ByID(context.Background(), "star-0001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, lookup.ErrNotFound)
}

func TestClient_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := lookup.NewClient(srv.URL).ByID(ctx, "star-0001")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
