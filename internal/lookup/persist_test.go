package lookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	st := FileState{Path: path}

	id, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, id, "missing file means no focus")

	require.NoError(t, st.Save("star-0001"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "display: star-0001\n", string(data))

	id, err = st.Load()
	require.NoError(t, err)
	assert.Equal(t, "star-0001", id)

	require.NoError(t, st.Clear())
	id, err = st.Load()
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, st.Clear(), "clearing twice is fine")
}

func TestFileState_SaveEmptyClears(t *testing.T) {
	st := FileState{Path: filepath.Join(t.TempDir(), "state.yaml")}
	require.NoError(t, st.Save("const-0002"))
	require.NoError(t, st.Save(""))

	_, err := os.Stat(st.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [oops"), 0o644))

	_, err := FileState{Path: path}.Load()
	assert.Error(t, err)
}

func TestMemoryState(t *testing.T) {
	var m MemoryState
	id, _ := m.Load()
	assert.Empty(t, id)

	require.NoError(t, m.Save("const-0001"))
	id, _ = m.Load()
	assert.Equal(t, "const-0001", id)

	require.NoError(t, m.Clear())
	id, _ = m.Load()
	assert.Empty(t, id)

	pre := NewMemoryState("star-0002")
	id, _ = pre.Load()
	assert.Equal(t, "star-0002", id)
}
