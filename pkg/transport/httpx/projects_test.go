package httpx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirResolver(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "demo.qgs"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "world.qgz"), nil, 0o644))

	r := DirResolver{Root: root}

	p, err := r.Resolve("demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, filepath.Join(root, "demo.qgs"), p.Path)

	// Explicit extensions are honored.
	p, err = r.Resolve("world.qgz")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "world.qgz"), p.Path)

	_, err = r.Resolve("absent")
	assert.Error(t, err)

	_, err = r.Resolve("")
	assert.Error(t, err)

	// Escapes from the project root are rejected.
	_, err = r.Resolve("../etc/passwd")
	assert.Error(t, err)
	_, err = r.Resolve("/etc/passwd")
	assert.Error(t, err)
}
