// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc implements the 16bit CCITT checksum (XMODEM polynomial,
// initial value 0xffff) used for map checksums.
package crc

const (
	ccittFalse = 0x1021
	initial    = 0xffff
)

var table = makeTable(ccittFalse)

func makeTable(poly uint16) *[256]uint16 {
	t := &[256]uint16{}
	for i := uint16(0); i < 256; i++ {
		c := i << 8
		for j := 0; j < 8; j++ {
			if c&0x8000 != 0 {
				c = (c << 1) ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}

// Checksum accumulates data written to it.
type Checksum struct {
	crc     uint16
	started bool
}

func (c *Checksum) Write(p []byte) (int, error) {
	if !c.started {
		c.crc = initial
		c.started = true
	}
	for _, v := range p {
		c.crc = table[byte(c.crc>>8)^v] ^ (c.crc << 8)
	}
	return len(p), nil
}

func (c *Checksum) Sum16() uint16 {
	if !c.started {
		return initial
	}
	return c.crc
}

// Block returns the checksum of p.
func Block(p []byte) uint16 {
	var c Checksum
	c.Write(p)
	return c.Sum16()
}
