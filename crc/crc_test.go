// SPDX-License-Identifier: GPL-2.0-or-later

package crc

import (
	"testing"
)

func TestBlock(t *testing.T) {
	if got := Block([]byte("123456789")); got != 0x29b1 {
		t.Errorf("Block(123456789) = %#x, want 0x29b1", got)
	}
	if got := Block(nil); got != 0xffff {
		t.Errorf("Block(nil) = %#x, want 0xffff", got)
	}
}

func TestStreaming(t *testing.T) {
	var c Checksum
	c.Write([]byte("1234"))
	c.Write([]byte("56789"))
	if c.Sum16() != Block([]byte("123456789")) {
		t.Errorf("split writes differ from Block")
	}
}
