package filesystem

import (
	"io/fs"
	"path/filepath"
	"sync"
)

// faultFS wraps a FileSystem and fails selected operations, so permission
// errors can be simulated even when tests run as root.
type faultFS struct {
	FileSystem

	mu       sync.Mutex
	readDir  map[string]error
	readFile map[string]error
	write    map[string]error
}

func newFaultFS() *faultFS {
	return &faultFS{
		FileSystem: OSFileSystem{},
		readDir:    make(map[string]error),
		readFile:   make(map[string]error),
		write:      make(map[string]error),
	}
}

func (f *faultFS) failReadDir(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readDir[filepath.Clean(path)] = err
}

func (f *faultFS) failReadFile(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readFile[filepath.Clean(path)] = err
}

func (f *faultFS) failWrite(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.write[filepath.Clean(path)] = err
}

func (f *faultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	f.mu.Lock()
	err := f.readDir[filepath.Clean(name)]
	f.mu.Unlock()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.FileSystem.ReadDir(name)
}

func (f *faultFS) ReadFile(name string) ([]byte, error) {
	f.mu.Lock()
	err := f.readFile[filepath.Clean(name)]
	f.mu.Unlock()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.FileSystem.ReadFile(name)
}

func (f *faultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	err := f.write[filepath.Clean(name)]
	f.mu.Unlock()
	if err != nil {
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.FileSystem.WriteFile(name, data, perm)
}
