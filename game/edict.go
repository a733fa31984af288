// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"goquake2/math/vec"
)

const (
	SolidNot     = iota // no interaction with other objects
	SolidTrigger        // only touch when inside, after moving
	SolidBBox           // touch on edge
	SolidBSP            // bsp clip, touch on edge
)

// spawnflags
const (
	SpawnNotEasy       = 0x00000100
	SpawnNotMedium     = 0x00000200
	SpawnNotHard       = 0x00000400
	SpawnNotDeathmatch = 0x00000800
	SpawnNotCoop       = 0x00001000
)

type Edict struct {
	Number int
	InUse  bool
	// set by the server when linked into the world
	Linked bool

	ClassName  string
	TargetName string
	Target     string
	Message    string
	SpawnFlags int

	Origin vec.Vec3
	Angles vec.Vec3
	Mins   vec.Vec3
	Maxs   vec.Vec3
	AbsMin vec.Vec3
	AbsMax vec.Vec3
	Solid  int

	// the last frame the edict was freed, slots are not reused right away
	FreeFrame int
}

func (e *Edict) clear() {
	n := e.Number
	*e = Edict{Number: n}
}
