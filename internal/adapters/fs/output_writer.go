package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/3-lines-studio/bifrost-elements/internal/usecase"
)

// OutputWriter writes build outputs atomically: content lands in a temp file
// next to the destination and is renamed over it, so readers never see a
// partial file. Every write is recorded with its output target type.
type OutputWriter struct {
	fs  FileSystem
	seq atomic.Uint64

	mu      sync.Mutex
	written map[string]string
}

func NewOutputWriter(fs FileSystem) *OutputWriter {
	return &OutputWriter{
		fs:      fs,
		written: make(map[string]string),
	}
}

func (w *OutputWriter) WriteFile(path string, content string, opts usecase.WriteOptions) error {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%d-%d.tmp", filepath.Base(path), os.Getpid(), w.seq.Add(1)))
	if err := w.fs.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return err
	}

	w.mu.Lock()
	w.written[path] = opts.OutputTargetType
	w.mu.Unlock()
	return nil
}

// Written returns the paths written for the given output target type, sorted.
func (w *OutputWriter) Written(targetType string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var paths []string
	for p, t := range w.written {
		if t == targetType {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	return paths
}
