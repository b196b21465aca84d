package fastcheck

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestGraphStaleness(t *testing.T) {
	dir := t.TempDir()

	t.Run("a never-added file is stale", func(t *testing.T) {
		g := NewGraph()
		path := writeTempFile(t, dir, "a.fe", "fn a() {}")
		assert.True(t, g.IsStale(path))
	})

	t.Run("an unchanged file is not stale after AddFile", func(t *testing.T) {
		g := NewGraph()
		path := writeTempFile(t, dir, "b.fe", "fn b() {}")
		require.NoError(t, g.AddFile(path))
		assert.False(t, g.IsStale(path))
	})

	t.Run("editing a file's content makes it stale again", func(t *testing.T) {
		g := NewGraph()
		path := writeTempFile(t, dir, "c.fe", "fn c() {}")
		require.NoError(t, g.AddFile(path))
		require.False(t, g.IsStale(path))

		future := time.Now().Add(time.Hour)
		require.NoError(t, os.WriteFile(path, []byte("fn c() { return 1; }"), 0o644))
		require.NoError(t, os.Chtimes(path, future, future))
		assert.True(t, g.IsStale(path))
	})

	t.Run("a file is stale when a dependency is stale", func(t *testing.T) {
		g := NewGraph()
		dep := writeTempFile(t, dir, "dep.fe", "const X: i32 = 1;")
		main := writeTempFile(t, dir, "main.fe", "fn f() {}")
		require.NoError(t, g.AddFile(dep))
		require.NoError(t, g.AddFile(main))
		g.AddDependency(main, dep)
		require.False(t, g.IsStale(main))

		future := time.Now().Add(time.Hour)
		require.NoError(t, os.WriteFile(dep, []byte("const X: i32 = 2;"), 0o644))
		require.NoError(t, os.Chtimes(dep, future, future))
		assert.True(t, g.IsStale(main))
	})

	t.Run("a dependency cycle terminates", func(t *testing.T) {
		g := NewGraph()
		a := writeTempFile(t, dir, "cyc_a.fe", "fn a() {}")
		b := writeTempFile(t, dir, "cyc_b.fe", "fn b() {}")
		require.NoError(t, g.AddFile(a))
		require.NoError(t, g.AddFile(b))
		g.AddDependency(a, b)
		g.AddDependency(b, a)
		assert.False(t, g.IsStale(a))
	})
}

func TestGraphDependents(t *testing.T) {
	g := NewGraph()
	g.AddDependency("main.fe", "lib.fe")
	g.AddDependency("other.fe", "lib.fe")
	deps := g.Dependents("lib.fe")
	assert.ElementsMatch(t, []string{"main.fe", "other.fe"}, deps)
	assert.Empty(t, g.Dependents("lib.fe_nonexistent"))
}

func TestDjb2(t *testing.T) {
	assert.Equal(t, djb2([]byte("")), djb2([]byte("")))
	assert.NotEqual(t, djb2([]byte("a")), djb2([]byte("b")))
}
