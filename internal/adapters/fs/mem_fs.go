package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// MemFileSystem keeps files in memory. It is safe for concurrent use.
type MemFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
	fail  map[string]error
}

func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{".": true, "/": true},
		fail:  make(map[string]error),
	}
}

// FailOn makes writes and renames targeting path fail with err.
func (m *MemFileSystem) FailOn(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[filepath.Clean(path)] = err
}

func (m *MemFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &iofs.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (m *MemFileSystem) FileExists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Clean(path)
	_, ok := m.files[p]
	return ok || m.dirs[p]
}

func (m *MemFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Clean(path)
	if err := m.fail[p]; err != nil {
		return &iofs.PathError{Op: "write", Path: path, Err: err}
	}
	if !m.dirs[filepath.Dir(p)] {
		return &iofs.PathError{Op: "write", Path: path, Err: iofs.ErrNotExist}
	}
	m.files[p] = slices.Clone(data)
	return nil
}

func (m *MemFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := filepath.Clean(path); !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *MemFileSystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldP, newP := filepath.Clean(oldPath), filepath.Clean(newPath)
	if err := m.fail[newP]; err != nil {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: err}
	}
	data, ok := m.files[oldP]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: iofs.ErrNotExist}
	}
	delete(m.files, oldP)
	m.files[newP] = data
	return nil
}

func (m *MemFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Clean(path)
	if _, ok := m.files[p]; !ok {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(m.files, p)
	return nil
}

// Paths lists every stored file, sorted.
func (m *MemFileSystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
