package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/search"
)

func TestWriteMatches(t *testing.T) {
	var buf bytes.Buffer
	writeMatches(&buf, []search.Entry{
		{ID: "star-0033", Name: "天狼", Kind: catalog.KindStar},
		{ID: "const-0012", Name: "天狼", Kind: catalog.KindConstellation},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	// Double-width kind labels still line up the id column.
	assert.Equal(t, strings.Index(lines[0], "ID"), strings.Index(lines[2], "star-0033")-2)

	buf.Reset()
	writeMatches(&buf, nil)
	assert.Contains(t, buf.String(), "No matches")
}
