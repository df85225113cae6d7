package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReload(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	require.NoError(t, loader.Load())
	assert.Equal(t, "default", loader.Get().Theme)

	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("theme: light\n"), 0644))
	cfg, err := loader.Reload()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)

	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("bogus: [\n"), 0644))
	_, err = loader.Reload()
	assert.Error(t, err)
	assert.Equal(t, "light", loader.Get().Theme, "broken file keeps previous config")

	require.NoError(t, os.Remove(loader.ConfigPath()))
	cfg, err = loader.Reload()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Theme)
}

func TestWatcherPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	require.NoError(t, loader.Load())

	w, err := loader.Watch()
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("theme: dracula\n"), 0644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Changes():
			if cfg.Theme == "dracula" {
				assert.Equal(t, "dracula", loader.Get().Theme)
				return
			}
		case <-w.Errors():
			// partial writes can fail to parse; the next event catches up
		case <-timeout:
			t.Fatal("timed out waiting for config reload")
		}
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	require.NoError(t, loader.Load())

	w, err := loader.Watch()
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}

	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("hello"), 0644))

	select {
	case cfg := <-w.Changes():
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	_, open := <-w.Changes()
	assert.False(t, open)
}
