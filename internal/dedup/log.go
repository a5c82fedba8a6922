package dedup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ProcessedLog is the durable set of URLs already handled: an append-only
// text file with one URL per line, mirrored in memory.
type ProcessedLog struct {
	path string
	log  *slog.Logger

	mu   sync.RWMutex
	urls map[string]struct{}
}

// OpenProcessedLog loads the log at path, creating its directory if needed.
// A missing file is an empty log.
func OpenProcessedLog(path string, log *slog.Logger) (*ProcessedLog, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	l := &ProcessedLog{
		path: path,
		log:  log.With("component", "processed-log"),
		urls: make(map[string]struct{}),
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	l.log.Info("processed urls loaded", "path", path, "urls", l.Len())
	return l, nil
}

// Contains reports whether url has been recorded.
func (l *ProcessedLog) Contains(url string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.urls[url]
	return ok
}

// Mark appends url to the file and then to the in-memory set. If the write
// fails the url stays unmarked. Marking a known url is a no-op.
func (l *ProcessedLog) Mark(url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.urls[url]; ok {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open processed log: %w", err)
	}
	if _, err := f.WriteString(url + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append processed url: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close processed log: %w", err)
	}

	l.urls[url] = struct{}{}
	return nil
}

// Len returns the number of recorded urls.
func (l *ProcessedLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.urls)
}

// Reload merges any lines appended to the file since it was last read.
func (l *ProcessedLog) Reload() error {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open processed log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read processed log: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range urls {
		l.urls[u] = struct{}{}
	}
	return nil
}

// Watch reloads the log whenever another process writes to the file. It
// blocks until ctx is cancelled.
func (l *ProcessedLog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory so a recreated file is still picked up.
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(l.path), err)
	}

	name := filepath.Clean(l.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := l.Reload(); err != nil {
				l.log.Warn("reload failed", "error", err)
				continue
			}
			l.log.Debug("processed urls reloaded", "urls", l.Len())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("watch error", "error", err)
		}
	}
}
