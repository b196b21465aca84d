package fastcheck

import (
	"os"
	"testing"
	"time"

	ferrite "github.com/ferrite-lang/ferritec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineCheckCachesAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "engine.fe", "fn f() {}")

	calls := 0
	analyze := func(p string, src []byte) ([]*ferrite.SymbolEntry, []*ferrite.TypeDescriptor, []ferrite.Diagnostic, error) {
		calls++
		return nil, nil, nil, nil
	}

	e := NewEngine(nil, analyze, 1<<20, time.Minute, 1)

	_, err := e.Check(path)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = e.Check(path)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "a second Check on an unchanged file should hit the cache, not re-analyze")
}

func TestEngineCheckReanalyzesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "engine_change.fe", "fn f() {}")

	calls := 0
	analyze := func(p string, src []byte) ([]*ferrite.SymbolEntry, []*ferrite.TypeDescriptor, []ferrite.Diagnostic, error) {
		calls++
		return nil, nil, nil, nil
	}

	e := NewEngine(nil, analyze, 1<<20, time.Minute, 1)
	_, err := e.Check(path)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("fn f() { return 1; }"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	_, err = e.Check(path)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a changed file must be re-analyzed")
}

func TestNewEngineFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "engine_cfg.fe", "fn f() {}")

	analyze := func(p string, src []byte) ([]*ferrite.SymbolEntry, []*ferrite.TypeDescriptor, []ferrite.Diagnostic, error) {
		return nil, nil, nil, nil
	}

	e := NewEngineFromConfig(nil, analyze, ferrite.NewConfig())
	_, err := e.Check(path)
	require.NoError(t, err)
	stats := e.Cache.Stats()
	assert.Equal(t, int64(1), stats.Misses)
}

func TestEngineCheckPropagatesAnalysisError(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "engine_err.fe", "fn f() {}")

	boom := assert.AnError
	analyze := func(p string, src []byte) ([]*ferrite.SymbolEntry, []*ferrite.TypeDescriptor, []ferrite.Diagnostic, error) {
		return nil, nil, nil, boom
	}

	e := NewEngine(nil, analyze, 1<<20, time.Minute, 1)
	_, err := e.Check(path)
	assert.ErrorIs(t, err, boom)
}
