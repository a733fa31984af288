// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

const (
	headerSize = 12
	entrySize  = 64
	// pak files with more entries are considered broken
	maxFiles = 4096
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no entry
// with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Size returns the size of the named entry.
func (p *Pack) Size(name string) (int64, bool) {
	q, ok := p.files[name]
	return q.size, ok
}

// Names returns all entries sorted.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init(size int64) error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, headerSize), binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "reading header")
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.New("not a pack")
	}
	if h.Offset < 0 || h.Size < 0 || h.Size%entrySize != 0 ||
		int64(h.Offset)+int64(h.Size) > size {
		return errors.New("bad directory")
	}
	filenum := h.Size / entrySize
	if filenum > maxFiles {
		return errors.Errorf("too many files: %d", filenum)
	}
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(h.Size))
	p.files = make(map[string]qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrap(err, "reading directory")
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if _, ok := p.files[name]; ok {
			return errors.Errorf("files in pack are not unique: %s", name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > size {
			return errors.Errorf("entry %s out of bounds", name)
		}
		p.files[name] = qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewReader reads the directory of a pak held by r.
func NewReader(r io.ReaderAt, size int64, name string) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(size); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return p, nil
}

func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewReader(f, fi.Size(), name)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}
