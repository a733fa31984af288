// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goquake2/math/vec"
)

const (
	bspVersion = 38

	lumpEntities = 0
	lumpModels   = 13
	numLumps     = 19

	headerSize = 8 + numLumps*8
	modelSize  = 48
)

var bspMagic = [4]byte{'I', 'B', 'S', 'P'}

type lump struct {
	Offset int32
	Length int32
}

type header struct {
	Magic   [4]byte
	Version int32
	Lumps   [numLumps]lump
}

type diskModel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

// Submodel is an inline brush model. Submodel 0 is the world.
type Submodel struct {
	Mins     vec.Vec3
	Maxs     vec.Vec3
	Origin   vec.Vec3
	Radius   float32
	HeadNode int
}

// cache is the shared, immutable part of a loaded map.
type cache struct {
	name      string
	checksum  uint32
	submodels []Submodel
	entities  string
	refs      int
}

// Model is a handle to a loaded collision model. Handles of the same map
// share one cache.
type Model struct {
	c      *cache
	loader *Loader
}

func (m *Model) Name() string {
	return m.c.name
}

func (m *Model) Checksum() uint32 {
	return m.c.checksum
}

func (m *Model) NumSubmodels() int {
	return len(m.c.submodels)
}

func (m *Model) Submodel(i int) Submodel {
	return m.c.submodels[i]
}

// EntityString returns the entity lump embedded in the map.
func (m *Model) EntityString() string {
	return m.c.entities
}
