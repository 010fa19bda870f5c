package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for more changes before
// starting a pass.
const DefaultDebounce = 200 * time.Millisecond

// PassFunc observes the outcome of every watch pass.
type PassFunc func(res *GenerateResult, err error)

// Watcher reruns generation whenever C# sources under the configured paths
// change.
type Watcher struct {
	runner   Runner
	cfg      *Config
	log      *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(r Runner, cfg *Config, log *zap.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{runner: r, cfg: cfg, log: log, debounce: debounce}
}

// Run performs one pass immediately and another after every debounced
// batch of relevant changes, until ctx is done. Pass failures are reported
// to onPass and logged; only watcher setup errors are returned.
func (w *Watcher) Run(ctx context.Context, onPass PassFunc) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	for _, root := range watchRoots(w.cfg.Paths) {
		if err := addRecursive(fsw, root); err != nil {
			return fmt.Errorf("watch %q: %w", root, err)
		}
	}

	pass := func() {
		res, err := w.runner.Generate(ctx, w.cfg)
		if err != nil {
			w.log.Warn("pass failed", zap.Error(err))
		}
		if onPass != nil {
			onPass(res, err)
		}
	}
	pass()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addRecursive(fsw, ev.Name); err != nil {
						w.log.Warn("watch new directory", zap.String("dir", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fire = time.After(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			pass()
		}
	}
}

const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&watchedOps == 0 {
		return false
	}
	if !IsSourceFile(ev.Name, false) || excluded(ev.Name, w.cfg.Exclude) {
		return false
	}
	if samePath(ev.Name, w.cfg.OutputFilename()) {
		return false
	}
	if dir := w.cfg.NotifyOutputDir(); dir != "" && within(ev.Name, dir) {
		return false
	}
	return true
}

func watchRoots(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		roots = append(roots, p)
	}
	return roots
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := skippedDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func within(path, dir string) bool {
	absPath, errP := filepath.Abs(path)
	absDir, errD := filepath.Abs(dir)
	if errP != nil || errD != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
