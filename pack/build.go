// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
)

// Build returns a pak containing files in the given order. Names listed
// twice are written twice.
func Build(files map[string]string, order []string) []byte {
	var data bytes.Buffer
	var dir bytes.Buffer
	offset := int32(headerSize)
	for _, n := range order {
		c := files[n]
		var e entry
		copy(e.Name[:], n)
		e.Offset = offset
		e.Size = int32(len(c))
		binary.Write(&dir, binary.LittleEndian, e)
		data.WriteString(c)
		offset += int32(len(c))
	}
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, header{
		ID:     [4]byte{'P', 'A', 'C', 'K'},
		Offset: offset,
		Size:   int32(dir.Len()),
	})
	out.Write(data.Bytes())
	out.Write(dir.Bytes())
	return out.Bytes()
}
