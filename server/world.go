// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"goquake2/bsp"
	"goquake2/game"
	"goquake2/math/vec"
	"goquake2/protocol"
)

const areaDepth = 4

type areaNode struct {
	axis     int // -1 = leaf node
	dist     float32
	children [2]*areaNode
	triggers map[int]*game.Edict
	solids   map[int]*game.Edict
}

// World sorts the linked edicts into a static binary tree over the world
// bounds so area queries only look at nearby edicts.
type World struct {
	root  *areaNode
	nodes int
	where map[int]*areaNode
	// called to reset the link state of all edicts
	edicts func(n int) *game.Edict
}

func NewWorld() *World {
	return &World{where: make(map[int]*areaNode)}
}

// Clear drops all links and builds the area nodes for m. Without a model
// there is no world and linking is a no-op.
func (w *World) Clear(m *bsp.Model) {
	w.root = nil
	w.nodes = 0
	w.where = make(map[int]*areaNode)
	if w.edicts != nil {
		for i := 0; i < protocol.MaxEdicts; i++ {
			if e := w.edicts(i); e != nil {
				e.Linked = false
			}
		}
	}
	if m == nil {
		return
	}
	wm := m.Submodel(0)
	w.root = w.createAreaNode(0, wm.Mins, wm.Maxs)
}

func (w *World) NumAreaNodes() int {
	return w.nodes
}

func (w *World) createAreaNode(depth int, mins, maxs vec.Vec3) *areaNode {
	w.nodes++
	an := &areaNode{
		triggers: make(map[int]*game.Edict),
		solids:   make(map[int]*game.Edict),
	}
	if depth == areaDepth {
		an.axis = -1
		return an
	}
	s := vec.Sub(maxs, mins)
	an.axis = func() int {
		if s[0] > s[1] {
			return 0
		}
		return 1
	}()
	an.dist = 0.5 * (maxs[an.axis] + mins[an.axis])

	mins1 := mins
	mins2 := mins
	maxs1 := maxs
	maxs2 := maxs
	maxs1[an.axis] = an.dist
	mins2[an.axis] = an.dist

	an.children[0] = w.createAreaNode(depth+1, mins2, maxs2)
	an.children[1] = w.createAreaNode(depth+1, mins1, maxs1)
	return an
}

func (w *World) UnlinkEdict(e *game.Edict) {
	if n, ok := w.where[e.Number]; ok {
		delete(n.triggers, e.Number)
		delete(n.solids, e.Number)
		delete(w.where, e.Number)
	}
	e.Linked = false
}

// LinkEdict sets the absolute bounds of e and files it into the smallest
// area node fully containing it. Non solid edicts are not filed.
func (w *World) LinkEdict(e *game.Edict) {
	if e.Linked {
		w.UnlinkEdict(e)
	}
	if e.Number == 0 {
		// the world is never linked
		return
	}
	if !e.InUse {
		return
	}
	// expand by one unit so touching edicts are found
	for i := 0; i < 3; i++ {
		e.AbsMin[i] = e.Origin[i] + e.Mins[i] - 1
		e.AbsMax[i] = e.Origin[i] + e.Maxs[i] + 1
	}
	e.Linked = true
	if e.Solid == game.SolidNot || w.root == nil {
		return
	}
	n := w.root
	for n.axis != -1 {
		if e.AbsMin[n.axis] > n.dist {
			n = n.children[0]
		} else if e.AbsMax[n.axis] < n.dist {
			n = n.children[1]
		} else {
			break // crosses the node
		}
	}
	if e.Solid == game.SolidTrigger {
		n.triggers[e.Number] = e
	} else {
		n.solids[e.Number] = e
	}
	w.where[e.Number] = n
}

func overlaps(e *game.Edict, mins, maxs vec.Vec3) bool {
	return !(e.AbsMin[0] > maxs[0] ||
		e.AbsMin[1] > maxs[1] ||
		e.AbsMin[2] > maxs[2] ||
		e.AbsMax[0] < mins[0] ||
		e.AbsMax[1] < mins[1] ||
		e.AbsMax[2] < mins[2])
}

// AreaEdicts returns the numbers of the solid or trigger edicts touching
// the box.
func (w *World) AreaEdicts(mins, maxs vec.Vec3, triggers bool) []int {
	var r []int
	var walk func(n *areaNode)
	walk = func(n *areaNode) {
		l := n.solids
		if triggers {
			l = n.triggers
		}
		for num, e := range l {
			if overlaps(e, mins, maxs) {
				r = append(r, num)
			}
		}
		if n.axis == -1 {
			return
		}
		if maxs[n.axis] > n.dist {
			walk(n.children[0])
		}
		if mins[n.axis] < n.dist {
			walk(n.children[1])
		}
	}
	if w.root != nil {
		walk(w.root)
	}
	return r
}
