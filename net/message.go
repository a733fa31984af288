// SPDX-License-Identifier: GPL-2.0-or-later

package net

import (
	"bytes"
	"encoding/binary"
)

// Message is a growable little endian write buffer. A Message with a
// MaxLen > 0 refuses writes past that length and reports Overflowed.
type Message struct {
	buf        bytes.Buffer
	MaxLen     int
	overflowed bool
}

func (m *Message) Bytes() []byte {
	return m.buf.Bytes()
}

func (m *Message) Len() int {
	return m.buf.Len()
}

func (m *Message) Overflowed() bool {
	return m.overflowed
}

func (m *Message) fits(n int) bool {
	if m.MaxLen > 0 && m.buf.Len()+n > m.MaxLen {
		m.overflowed = true
		return false
	}
	return true
}

func (m *Message) write(data interface{}, n int) {
	if !m.fits(n) {
		return
	}
	binary.Write(&m.buf, binary.LittleEndian, data)
}

func (m *Message) WriteChar(c int) {
	m.write(int8(c), 1)
}

func (m *Message) WriteByte(c int) {
	m.write(uint8(c), 1)
}

func (m *Message) WriteShort(c int) {
	m.write(int16(c), 2)
}

func (m *Message) WriteLong(c int) {
	m.write(int32(c), 4)
}

func (m *Message) WriteFloat(c float32) {
	m.write(c, 4)
}

func (m *Message) WriteString(c string) {
	if !m.fits(len(c) + 1) {
		return
	}
	m.buf.WriteString(c)
	m.buf.WriteByte(0)
}

func (m *Message) WriteBytes(b []byte) {
	if !m.fits(len(b)) {
		return
	}
	m.buf.Write(b)
}

func (m *Message) HasMessage() bool {
	return m.buf.Len() > 0
}

func (m *Message) ClearMessage() {
	m.buf.Reset()
	m.overflowed = false
}
