// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"strconv"

	"goquake2/conlog"
	"goquake2/math/vec"
	"goquake2/protocol"
)

var spawnFuncs map[string]func(g *Game, e *Edict)

func init() {
	spawnFuncs = map[string]func(g *Game, e *Edict){
		"worldspawn":               spWorldspawn,
		"info_player_start":        spInfoPlayerStart,
		"info_player_deathmatch":   spInfoPlayerDeathmatch,
		"info_player_coop":         spInfoPlayerCoop,
		"info_player_intermission": spInfoPlayerIntermission,
		"misc_teleporter_dest":     spMiscTeleporterDest,
	}
}

const singleStatusBar = "yb -24 " +
	"xv 0 hnum xv 50 pic 0 " +
	"if 2 xv 100 anum xv 150 pic 2 endif " +
	"if 4 xv 200 rnum xv 250 pic 4 endif " +
	"if 6 xv 296 pic 6 endif " +
	"yb -50 " +
	"if 7 xv 0 pic 7 xv 26 yb -42 stat_string 8 yb -50 endif " +
	"if 9 xv 262 num 2 10 xv 296 pic 9 endif " +
	"if 11 xv 148 pic 11 endif "

const dmStatusBar = singleStatusBar +
	"xr -50 yt 2 num 3 14 " +
	"if 17 xv 0 yb -58 string2 \"SPECTATOR MODE\" endif " +
	"if 16 xv 0 yb -68 string \"Chasing\" xv 64 stat_string 16 endif "

func (g *Game) configString(i int, s string) {
	if err := g.imports.SetConfigString(i, s); err != nil {
		conlog.WPrintf("configstring %d: %v\n", i, err)
	}
}

func spWorldspawn(g *Game, e *Edict) {
	e.Solid = SolidBSP
	e.InUse = true

	if e.Message != "" {
		g.levelName = e.Message
		g.configString(protocol.CsName, e.Message)
	}
	sky := "unit1_"
	g.configString(protocol.CsSky, sky)
	g.configString(protocol.CsSkyRotate, "0")
	g.configString(protocol.CsSkyAxis, "0 0 0")
	g.configString(protocol.CsCdTrack, strconv.Itoa(0))
	g.configString(protocol.CsMaxClients, strconv.Itoa(g.maxClients))
	if g.deathmatch() {
		g.configString(protocol.CsStatusBar, dmStatusBar)
	} else {
		g.configString(protocol.CsStatusBar, singleStatusBar)
	}
}

func linkPoint(g *Game, e *Edict, mins, maxs vec.Vec3, solid int) {
	e.Mins = mins
	e.Maxs = maxs
	e.Solid = solid
	g.imports.LinkEdict(e)
}

func spInfoPlayerStart(g *Game, e *Edict) {
	linkPoint(g, e, vec.Vec3{-16, -16, -24}, vec.Vec3{16, 16, 32}, SolidNot)
}

// spInfoPlayerDeathmatch is a potential spawning position for deathmatch
// games, rendered as a teleporter pad.
func spInfoPlayerDeathmatch(g *Game, e *Edict) {
	if !g.deathmatch() {
		g.FreeEdict(e)
		return
	}
	spMiscTeleporterDest(g, e)
}

func spInfoPlayerCoop(g *Game, e *Edict) {
	if !g.coop() {
		g.FreeEdict(e)
		return
	}
	linkPoint(g, e, vec.Vec3{-16, -16, -24}, vec.Vec3{16, 16, 32}, SolidNot)
}

// The deathmatch intermission point is where the camera sits between levels.
func spInfoPlayerIntermission(g *Game, e *Edict) {
}

func spMiscTeleporterDest(g *Game, e *Edict) {
	linkPoint(g, e, vec.Vec3{-32, -32, -24}, vec.Vec3{32, 32, -16}, SolidBBox)
}
