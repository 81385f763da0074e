package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/born-ml/rtpolicy/internal/storage"
)

const writeOrCreateMask = fsnotify.Write | fsnotify.Create

// watcher reloads the model after its file changes.
type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// startWatching watches the directory of a local model file, so that
// replacing the file by rename is seen as well as writing it in place.
func (a *PolicyAgent) startWatching(uri string) error {
	protocol, err := storage.ProtocolOf(uri)
	if err != nil {
		return err
	}
	if protocol != storage.File {
		return fmt.Errorf("watching requires a local model file, got %s", protocol)
	}
	path, err := filepath.Abs(storage.LocalPath(uri))
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w := &watcher{fs: fsw, done: make(chan struct{})}
	w.wg.Add(1)
	go w.run(path, a.opts.reloadDelay, a.log, func() {
		if err := a.Reload(context.Background()); err != nil {
			a.log.Error(err, "model reload failed, previous model keeps serving", "path", path)
		}
	})
	a.watcher = w
	a.log.Info("watching model file", "path", path)
	return nil
}

func (w *watcher) run(path string, delay time.Duration, log logr.Logger, reload func()) {
	defer w.wg.Done()

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || event.Op&writeOrCreateMask == 0 {
				continue
			}
			log.V(1).Info("model file changed", "op", event.Op.String())
			timer.Reset(delay)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Error(err, "model file watcher error")
		case <-timer.C:
			reload()
		}
	}
}

func (w *watcher) stop() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
