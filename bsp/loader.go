// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"goquake2/crc"
	"goquake2/math/vec"
	"goquake2/protocol"
)

const maxMapSize = 0x4000000

var (
	ErrBadMagic   = errors.New("Wrong ident")
	ErrBadVersion = errors.New("Unknown version")
	ErrBadLump    = errors.New("Bad lump extents")
	ErrNoModels   = errors.New("Map with no models")
	ErrTooMany    = errors.New("Too many elements")
)

// Files is the part of the file system the loader needs.
type Files interface {
	LoadFile(name string, max int64) ([]byte, error)
}

// Loader loads and caches collision models.
type Loader struct {
	files  Files
	mu     sync.Mutex
	loaded map[string]*cache
}

func NewLoader(f Files) *Loader {
	return &Loader{files: f, loaded: make(map[string]*cache)}
}

// LoadMap returns a handle to the named map, loading and validating it if it
// is not already in use.
func (l *Loader) LoadMap(name string) (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.loaded[name]; ok {
		c.refs++
		return &Model{c: c, loader: l}, nil
	}
	b, err := l.files.LoadFile(name, maxMapSize)
	if err != nil {
		return nil, err
	}
	c, err := load(name, b)
	if err != nil {
		return nil, err
	}
	c.refs = 1
	l.loaded[name] = c
	return &Model{c: c, loader: l}, nil
}

// Free releases the handle. Freeing a nil or already freed model is a no-op.
func (m *Model) Free() {
	if m == nil || m.c == nil {
		return
	}
	if l := m.loader; l != nil {
		l.mu.Lock()
		m.c.refs--
		if m.c.refs <= 0 {
			delete(l.loaded, m.c.name)
		}
		l.mu.Unlock()
	}
	m.c = nil
}

// Loaded reports the number of distinct maps held.
func (l *Loader) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.loaded)
}

func (h *header) lumpData(b []byte, i int) ([]byte, error) {
	l := h.Lumps[i]
	if l.Offset < 0 || l.Length < 0 || int64(l.Offset)+int64(l.Length) > int64(len(b)) {
		return nil, ErrBadLump
	}
	return b[l.Offset : l.Offset+l.Length], nil
}

func load(name string, b []byte) (*cache, error) {
	var h header
	if len(b) < headerSize {
		return nil, errors.Wrap(ErrBadLump, "header")
	}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "header")
	}
	if h.Magic != bspMagic {
		return nil, ErrBadMagic
	}
	if h.Version != bspVersion {
		return nil, errors.Wrapf(ErrBadVersion, "%d", h.Version)
	}

	ents, err := h.lumpData(b, lumpEntities)
	if err != nil {
		return nil, errors.Wrap(err, "entities")
	}
	if len(ents) > protocol.MaxMapEntString {
		return nil, errors.Wrap(ErrTooMany, "entities")
	}
	if i := bytes.IndexByte(ents, 0); i >= 0 {
		ents = ents[:i]
	}

	models, err := h.lumpData(b, lumpModels)
	if err != nil {
		return nil, errors.Wrap(err, "models")
	}
	if len(models)%modelSize != 0 {
		return nil, errors.Wrap(ErrBadLump, "models")
	}
	n := len(models) / modelSize
	if n < 1 {
		return nil, ErrNoModels
	}
	if n > protocol.MaxMapModels {
		return nil, errors.Wrap(ErrTooMany, "models")
	}
	dm := make([]diskModel, n)
	if err := binary.Read(bytes.NewReader(models), binary.LittleEndian, dm); err != nil {
		return nil, errors.Wrap(err, "models")
	}
	sm := make([]Submodel, n)
	for i, d := range dm {
		// spread the models by a unit in each direction
		s := Submodel{HeadNode: int(d.HeadNode), Origin: vec.Vec3(d.Origin)}
		for j := 0; j < 3; j++ {
			s.Mins[j] = d.Mins[j] - 1
			s.Maxs[j] = d.Maxs[j] + 1
		}
		s.Radius = vec.RadiusFromBounds(s.Mins, s.Maxs)
		sm[i] = s
	}

	return &cache{
		name:      name,
		checksum:  uint32(crc.Block(b)),
		submodels: sm,
		entities:  string(ents),
	}, nil
}
