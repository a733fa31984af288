// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
)

// Build assembles a minimal map holding only an entity lump and the given
// submodel bounds. It is used by tools and tests that need a loadable map
// without real geometry.
func Build(entities string, bounds [][2][3]float32) []byte {
	var h header
	h.Magic = bspMagic
	h.Version = bspVersion

	var body bytes.Buffer
	off := int32(headerSize)

	ents := append([]byte(entities), 0)
	h.Lumps[lumpEntities] = lump{Offset: off, Length: int32(len(ents))}
	body.Write(ents)
	off += int32(len(ents))

	var models bytes.Buffer
	for _, b := range bounds {
		binary.Write(&models, binary.LittleEndian, diskModel{Mins: b[0], Maxs: b[1]})
	}
	h.Lumps[lumpModels] = lump{Offset: off, Length: int32(models.Len())}
	body.Write(models.Bytes())

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, h)
	out.Write(body.Bytes())
	return out.Bytes()
}
