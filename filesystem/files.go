// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"goquake2/pack"
	"goquake2/protocol"
)

const BaseGame = "baseq2"

var (
	ErrNotFound    = errors.New("No such file or directory")
	ErrTooLarge    = errors.New("File too large")
	ErrNameTooLong = errors.New("File name too long")
	ErrBadPath     = errors.New("Invalid path")
)

// A searchPath is either a directory on disk or a pak archive.
type searchPath struct {
	dir  string
	pack *pack.Pack
}

func (s *searchPath) String() string {
	if s.pack != nil {
		return s.pack.String()
	}
	return s.dir
}

func (s *searchPath) open(name string) (io.ReadCloser, int64, error) {
	if s.pack != nil {
		sz, ok := s.pack.Size(name)
		if !ok {
			return nil, 0, os.ErrNotExist
		}
		r, err := s.pack.Open(name)
		if err != nil {
			return nil, 0, err
		}
		return io.NopCloser(r), sz, nil
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, 0, os.ErrNotExist
	}
	return f, fi.Size(), nil
}

// FS is the virtual file system. Later added paths take precedence, inside
// a directory pak files take precedence over loose files and higher
// numbered paks over lower numbered ones.
type FS struct {
	mu      sync.RWMutex
	search  []*searchPath
	gameDir string
}

func New() *FS {
	return &FS{}
}

// UseBaseDir sets up baseq2 and optionally a mod directory below base.
func (fs *FS) UseBaseDir(base, game string) {
	fs.mu.Lock()
	fs.search = nil
	fs.mu.Unlock()
	fs.AddGameDir(filepath.Join(base, BaseGame))
	if game != "" && game != BaseGame {
		fs.AddGameDir(filepath.Join(base, game))
	}
}

// AddGameDir puts dir and its pak files in front of the search path.
func (fs *FS) AddGameDir(dir string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.gameDir = dir
	paths := []*searchPath{{dir: dir}}
	for i := 0; ; i++ {
		p, err := pack.NewPackReader(filepath.Join(dir, fmt.Sprintf("pak%d.pak", i)))
		if err != nil {
			break
		}
		paths = append([]*searchPath{{pack: p}}, paths...)
	}
	fs.search = append(paths, fs.search...)
}

// GameDir is the directory written to, the last one added.
func (fs *FS) GameDir() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.gameDir
}

func (fs *FS) Path() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	r := make([]string, 0, len(fs.search))
	for _, s := range fs.search {
		r = append(r, s.String())
	}
	return r
}

func cleanName(name string) (string, error) {
	if len(name) >= protocol.MaxQPath {
		return "", ErrNameTooLong
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return "", ErrBadPath
	}
	return path.Clean(name), nil
}

// Open returns the first match in the search path and its size.
func (fs *FS) Open(name string) (io.ReadCloser, int64, error) {
	n, err := cleanName(name)
	if err != nil {
		return nil, 0, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for _, s := range fs.search {
		f, sz, err := s.open(n)
		if err == nil {
			return f, sz, nil
		}
		if !os.IsNotExist(err) {
			return nil, 0, errors.Wrap(err, s.String())
		}
	}
	return nil, 0, ErrNotFound
}

// LoadFile reads a whole file. Files larger than max are rejected with
// ErrTooLarge without reading them; max <= 0 means no limit.
func (fs *FS) LoadFile(name string, max int64) ([]byte, error) {
	f, sz, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if max > 0 && sz > max {
		return nil, ErrTooLarge
	}
	b := make([]byte, sz)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return b, nil
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

// HasExt compares the extension case insensitive, ext includes the dot.
func HasExt(path, ext string) bool {
	return strings.EqualFold(Ext(path), ext)
}
