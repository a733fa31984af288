// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand provides a small stateless-noise based generator. Its output
// is well distributed but not suitable for anything security related.
package rand

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) *Generator {
	return &Generator{seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) Uint32() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

// Short returns 15 random bits, the range of the classic C rand().
func (g *Generator) Short() uint32 {
	return g.Uint32() & 0x7fff
}

func (g *Generator) Intn(n int) int {
	return int(g.Uint32() % uint32(n))
}
