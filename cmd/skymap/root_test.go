package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skymap/internal/config"
)

func TestNewLogger_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skymap.log")
	l, closeFn, err := newLogger(config.LogConfig{Level: "info", File: path, Format: "json"}, true)
	require.NoError(t, err)
	require.NotNil(t, closeFn)

	l.Debug("hidden")
	l.Info("focus %s", "star-0001")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "focus star-0001", rec["message"])
}

func TestNewLogger_TUIWithoutFileDiscards(t *testing.T) {
	l, closeFn, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}, true)
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	l.Error("nowhere")
}

func TestNewLogger_BadFile(t *testing.T) {
	_, _, err := newLogger(config.LogConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")}, false)
	assert.Error(t, err)
}
