package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a watched file must stay quiet before the
// change is reported.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls onChange after path is written, created or renamed and has
// then been quiet for debounce. A file is watched through its directory so
// editors that replace the file are still seen; a directory reports any file
// inside it. Watch blocks until ctx is done and returns nil, or returns the
// first watcher error.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(path string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	dir, target := absPath, ""
	if !info.IsDir() {
		dir, target = filepath.Dir(absPath), absPath
	}
	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	pending := ""

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if target != "" && name != target {
				continue
			}
			pending = name
			timer.Reset(debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)

		case <-timer.C:
			if pending != "" {
				onChange(pending)
				pending = ""
			}
		}
	}
}
