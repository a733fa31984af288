// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"goquake2/bsp"
	"goquake2/conlog"
	"goquake2/cvar"
	"goquake2/math/vec"
	"goquake2/protocol"
)

const frameTime = 0.1

// Game is the built-in game module. It only knows the entities needed to
// bring a level up: the world and the spawn points.
type Game struct {
	reg     *cvar.Registry
	imports Imports

	maxClients int
	edicts     []Edict
	numEdicts  int

	mapName    string
	spawnPoint string
	levelName  string
	frameNum   int
	time       float32
}

var _ Module = (*Game)(nil)

func New(r *cvar.Registry) *Game {
	return &Game{reg: r, imports: nopImports{}}
}

func (g *Game) Bind(i Imports) {
	if i == nil {
		i = nopImports{}
	}
	g.imports = i
}

func (g *Game) Init(maxClients int) error {
	if maxClients < 1 || maxClients >= protocol.MaxEdicts {
		return errors.Errorf("Init: bad maxclients %d", maxClients)
	}
	conlog.DPrintf("==== InitGame ====\n")
	g.maxClients = maxClients
	g.edicts = make([]Edict, protocol.MaxEdicts)
	for i := range g.edicts {
		g.edicts[i].Number = i
	}
	g.numEdicts = maxClients + 1
	g.frameNum = 0
	g.time = 0
	return nil
}

func (g *Game) Shutdown() {
	conlog.DPrintf("==== ShutdownGame ====\n")
	g.edicts = nil
	g.numEdicts = 0
}

// Edict returns edict n or nil if it is out of range.
func (g *Game) Edict(n int) *Edict {
	if n < 0 || n >= len(g.edicts) {
		return nil
	}
	return &g.edicts[n]
}

func (g *Game) NumEdicts() int {
	return g.numEdicts
}

func (g *Game) FrameNum() int {
	return g.frameNum
}

func (g *Game) MapName() string {
	return g.mapName
}

func (g *Game) RunFrame() {
	g.frameNum++
	g.time = float32(g.frameNum) * frameTime
}

func (g *Game) deathmatch() bool {
	return g.reg.Int("deathmatch") != 0
}

func (g *Game) coop() bool {
	return g.reg.Int("coop") != 0
}

func (g *Game) spawnEdict() (*Edict, error) {
	for i := g.maxClients + 1; i < g.numEdicts; i++ {
		e := &g.edicts[i]
		// the first couple seconds of server time can involve a lot of
		// freeing and allocating, so relax the replacement policy
		if !e.InUse && (e.FreeFrame < 2 || g.frameNum-e.FreeFrame > 5) {
			e.clear()
			e.InUse = true
			return e, nil
		}
	}
	if g.numEdicts == len(g.edicts) {
		return nil, errors.New("ED_Alloc: no free edicts")
	}
	e := &g.edicts[g.numEdicts]
	g.numEdicts++
	e.clear()
	e.InUse = true
	return e, nil
}

// FreeEdict unlinks e and marks it unused.
func (g *Game) FreeEdict(e *Edict) {
	g.imports.UnlinkEdict(e)
	if e.Number <= g.maxClients {
		return
	}
	e.clear()
	e.FreeFrame = g.frameNum
}

// SpawnEntities throws away the current level and creates the entities
// described by entities. The first entity has to be the worldspawn.
func (g *Game) SpawnEntities(name, entities, spawnPoint string) error {
	if g.edicts == nil {
		return errors.New("SpawnEntities: game not initialized")
	}
	es, err := bsp.ParseEntities(entities)
	if err != nil {
		return errors.Wrap(err, "SpawnEntities")
	}
	for i := range g.edicts {
		if g.edicts[i].Linked {
			g.imports.UnlinkEdict(&g.edicts[i])
		}
		g.edicts[i].clear()
	}
	g.numEdicts = g.maxClients + 1
	g.mapName = name
	g.spawnPoint = spawnPoint
	g.levelName = ""
	g.frameNum = 0
	g.time = 0

	inhibit := 0
	for i, be := range es {
		var e *Edict
		if i == 0 {
			e = &g.edicts[0]
			e.InUse = true
		} else if e, err = g.spawnEdict(); err != nil {
			return err
		}
		applyFields(e, be)

		if i == 0 && e.ClassName != "worldspawn" {
			return errors.Errorf("SpawnEntities: first entity is %q, not worldspawn", e.ClassName)
		}
		if i != 0 && g.inhibited(e) {
			g.FreeEdict(e)
			inhibit++
			continue
		}
		g.spawn(e)
	}
	if es == nil {
		// a level without entities still gets a world
		g.edicts[0].InUse = true
		g.edicts[0].ClassName = "worldspawn"
		g.spawn(&g.edicts[0])
	}
	conlog.DPrintf("%d entities inhibited\n", inhibit)
	return nil
}

func (g *Game) inhibited(e *Edict) bool {
	if g.deathmatch() {
		return e.SpawnFlags&SpawnNotDeathmatch != 0
	}
	if g.coop() {
		return e.SpawnFlags&SpawnNotCoop != 0
	}
	return false
}

func parseVec(s string) vec.Vec3 {
	var v vec.Vec3
	for i, f := range strings.Fields(s) {
		if i > 2 {
			break
		}
		x, _ := strconv.ParseFloat(f, 32)
		v[i] = float32(x)
	}
	return v
}

func applyFields(e *Edict, be *bsp.Entity) {
	for _, k := range be.PropertyNames() {
		v, _ := be.Property(k)
		switch k {
		case "classname":
			e.ClassName = v
		case "targetname":
			e.TargetName = v
		case "target":
			e.Target = v
		case "message":
			e.Message = v
		case "spawnflags":
			e.SpawnFlags, _ = strconv.Atoi(v)
		case "origin":
			e.Origin = parseVec(v)
		case "angles":
			e.Angles = parseVec(v)
		case "angle":
			a, _ := strconv.ParseFloat(v, 32)
			e.Angles = vec.Vec3{0, float32(a), 0}
		}
	}
}

func (g *Game) spawn(e *Edict) {
	f, ok := spawnFuncs[e.ClassName]
	if !ok {
		conlog.DPrintf("%s doesn't have a spawn function\n", e.ClassName)
		g.FreeEdict(e)
		return
	}
	f(g, e)
}

// SelectSpawnPoint returns the info_player_start matching the spawn point of
// the level. Without a spawn point the start without targetname wins.
func (g *Game) SelectSpawnPoint() (*Edict, bool) {
	var fallback *Edict
	for i := g.maxClients + 1; i < g.numEdicts; i++ {
		e := &g.edicts[i]
		if !e.InUse || e.ClassName != "info_player_start" {
			continue
		}
		if e.TargetName == g.spawnPoint {
			return e, true
		}
		if fallback == nil {
			fallback = e
		}
	}
	return fallback, fallback != nil
}

type nopImports struct{}

func (nopImports) SetConfigString(int, string) error { return nil }
func (nopImports) LinkEdict(*Edict)                  {}
func (nopImports) UnlinkEdict(*Edict)                {}
