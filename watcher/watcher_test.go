package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte("inicial"), 0644))

	w, err := New(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(content string) { changes <- content })
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.js"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`Backend.eliminar("a", 1)`), 0644))

	deadline := time.After(5 * time.Second)
	for got := ""; got != `Backend.eliminar("a", 1)`; {
		select {
		case got = <-changes:
		case <-deadline:
			t.Fatalf("change not reported, last content %q", got)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "app.js"), nil)
	assert.Error(t, err)
}
