package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/lookup"
)

func newHandler(log zerolog.Logger) http.Handler {
	store := catalog.Default()
	local := lookup.NewLocal(store)
	return New(store, local, local, log).Router()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleObject(t *testing.T) {
	h := newHandler(zerolog.Nop())

	rec := get(t, h, "/api/star/star-0001")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp lookup.ObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Star)
	assert.Nil(t, resp.Const)
	assert.Equal(t, "star-0001", resp.Star.StarID)
	assert.Equal(t, "天樞", resp.Star.DisplayName)
	assert.Equal(t, "11h 03m 44s", resp.Star.RA)
	assert.Equal(t, "+61° 45' 04\"", resp.Star.Dec)

	rec = get(t, h, "/api/const/const-0001")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = lookup.ObjectResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Const)
	assert.Equal(t, 3, resp.Const.Level)

	for _, path := range []string{"/api/star/star-9999", "/api/star/const-0001", "/api/const/star-0001", "/api/star/0001"} {
		rec = get(t, h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandleName(t *testing.T) {
	h := newHandler(zerolog.Nop())

	rec := get(t, h, "/api/name/"+url.PathEscape("參"))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp lookup.ObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Const)
	assert.Equal(t, "const-0002", resp.Const.ConstID)

	rec = get(t, h, "/api/name/"+url.PathEscape("玉井"))
	require.Equal(t, http.StatusOK, rec.Code, "unknown names are not errors")
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestHandleDocument(t *testing.T) {
	h := newHandler(zerolog.Nop())

	rec := get(t, h, "/api/document/const-0002")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp lookup.DocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Document.Paragraph)
	assert.Equal(t, "verse", resp.Document.Paragraph[0].Type)

	rec = get(t, h, "/api/document/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCatalogAndHealth(t *testing.T) {
	h := newHandler(zerolog.Nop())

	rec := get(t, h, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	var f catalog.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, "FeatureCollection", f.Stars.Type)
	assert.Len(t, f.Stars.Features, len(catalog.Default().Stars()))

	rec = get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

type failingService struct{}

func (failingService) ByID(context.Context, string) (lookup.ObjectDetail, error) {
	return lookup.ObjectDetail{}, errors.New("database on fire")
}

func (failingService) ByName(context.Context, string) (lookup.ObjectDetail, error) {
	return lookup.ObjectDetail{}, errors.New("database on fire")
}

func (failingService) Document(context.Context, string) (lookup.Document, error) {
	return lookup.Document{}, errors.New("database on fire")
}

func TestInternalErrors(t *testing.T) {
	var logs bytes.Buffer
	h := New(catalog.Default(), failingService{}, failingService{}, zerolog.New(&logs)).Router()

	for _, path := range []string{"/api/star/star-0001", "/api/name/x", "/api/document/x"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "fire", "internal details leaked for %s", path)
	}
	assert.Contains(t, logs.String(), "database on fire")
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	h := newHandler(zerolog.New(&logs))

	get(t, h, "/api/star/star-9999")

	line := strings.TrimSpace(logs.String())
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/api/star/star-9999", rec["path"])
	assert.EqualValues(t, 404, rec["status"])
	assert.Equal(t, "Request processed", rec["message"])
}
