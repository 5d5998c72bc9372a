package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
)

func TestLocal_Store(t *testing.T) {
	dir := t.TempDir()
	a, err := New(config.ArchiveConfig{Driver: "local", Dir: dir})
	require.NoError(t, err)

	loc, err := a.Store(context.Background(), Key(7, "parecer_tecnico_Maria.pdf"), []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "7", "parecer_tecnico_Maria.pdf"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestNew(t *testing.T) {
	a, err := New(config.ArchiveConfig{Driver: "none"})
	require.NoError(t, err)
	loc, err := a.Store(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Empty(t, loc)

	_, err = New(config.ArchiveConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "12/a.pdf", Key(12, "a.pdf"))
}
