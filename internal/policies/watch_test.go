package policies

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocklist: [casino]\n"), 0o644))

	var current atomic.Pointer[File]
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, slog.New(slog.NewTextHandler(io.Discard, nil)), func(f *File) {
			current.Store(f)
		})
	}()
	// dá tempo do watcher registrar o diretório
	time.Sleep(50 * time.Millisecond)

	t.Run("arquivo inválido é ignorado", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("groups: [\n"), 0o644))
		time.Sleep(300 * time.Millisecond)
		assert.Nil(t, current.Load())
	})

	t.Run("arquivo válido é aplicado", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("blocklist: [radar, obman]\n"), 0o644))
		require.Eventually(t, func() bool {
			f := current.Load()
			return f != nil && len(f.Blocklist) == 2
		}, 2*time.Second, 20*time.Millisecond)
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "policy.yaml"), slog.Default(), func(*File) {})
	assert.Error(t, err)
}
