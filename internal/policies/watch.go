package policies

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watch recarrega o arquivo de políticas a cada escrita e chama apply com o
// documento novo. Um arquivo inválido é ignorado e o anterior continua valendo.
// Bloqueia até ctx terminar.
func Watch(ctx context.Context, path string, logger *slog.Logger, apply func(*File)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve policy path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// editores costumam trocar o arquivo por rename, então observamos o diretório
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch policy dir: %w", err)
	}

	reload := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			f, err := LoadFile(abs)
			if err != nil {
				logger.Warn("policy reload failed, keeping previous policy", "path", abs, "error", err)
				continue
			}
			apply(f)
			logger.Info("policy reloaded", "path", abs, "grants", len(f.Grants()), "blocklist", len(f.Blocklist))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("policy watcher error", "error", err)
		}
	}
}
