// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"goquake2/conlog"
	"goquake2/filesystem"
	"goquake2/protocol"
)

const reloadFrames = 100

// newSpawnCount mixes two random shorts with the clock. It only has to
// differ between consecutive levels.
func (s *Server) newSpawnCount() int {
	c := (s.rng.Short() | s.rng.Short()<<16) ^ millis()
	return int(c & 0x7FFFFFFF)
}

// configString sets a configstring while spawning. Every slot written here
// is needed by the clients, so a value which does not fit is an error.
func (s *Server) configString(i int, v string) error {
	return errors.Wrap(s.level.SetConfigString(i, v), "configstring")
}

// overrideEntityString optionally loads the entity string from
// map_override_path. Any failure keeps the one of the map.
func (s *Server) overrideEntityString(server string) {
	dir := s.vars.MapOverridePath.String()
	if dir == "" {
		return
	}
	p := dir + server + ".ent"
	var err error
	if len(p) >= protocol.MaxQPath {
		err = filesystem.ErrNameTooLong
	} else {
		var b []byte
		b, err = s.files.LoadFile(p, protocol.MaxMapEntString)
		if errors.Is(err, filesystem.ErrNotFound) {
			return
		}
		if err == nil {
			conlog.Printf("Loaded entity string from %s\n", p)
			s.level.entityString = string(b)
			return
		}
	}
	conlog.EPrintf("Couldn't load entity string from %s: %v\n", p, err)
}

func (s *Server) savesEnabled() bool {
	return !(s.vars.Dedicated.Bool() && !s.vars.Coop.Bool())
}

// SpawnServer changes the server to the map of c, taking all connected
// clients along with it. c has to come from ParseMapCommand. The only error
// returned is a *FatalError.
func (s *Server) SpawnServer(c *MapCommand) error {
	if s.local != nil {
		s.local.BeginLoadingPlaque()
	}

	conlog.Printf("------- Server Initialization -------\n")
	conlog.Printf("SpawnServer: %s\n", c.Server)

	if s.vars.Dedicated.Bool() && s.savesEnabled() && !s.savedirWarned {
		conlog.WPrintf("Dedicated coop servers save game state into the same place as single player game by default (currently '%s'). "+
			"To override that, set the 'sv_savedir' console variable. To host multiple dedicated coop servers on one machine, set that cvar "+
			"to different values on different instances of the server.\n",
			filepath.Join(s.gameDir(), s.vars.ServerSaveDir.String()))
		s.savedirWarned = true
	}

	// everyone needs to reconnect
	for _, cl := range s.sessions {
		cl.Reset()
	}
	s.broadcastCommand(fmt.Sprintf("changing map=%s\n", c.Server))
	s.SendClientMessages()

	// free current level and wipe it
	s.level.free()

	s.level.SpawnCount = s.newSpawnCount()
	// set legacy spawncounts
	for _, cl := range s.sessions {
		cl.SpawnCount = s.level.SpawnCount
	}
	s.nextEntity = 0

	// save name for levels that don't set message
	csErr := s.configString(protocol.CsName, c.Server)
	s.level.Name = c.Server
	s.level.MapCmd = c.Buffer

	if s.vars.DeathMatch.Bool() {
		csErr = multierr.Append(csErr, s.configString(protocol.CsAirAccel, strconv.Itoa(s.vars.ServerAirAccel.Int())))
	} else {
		csErr = multierr.Append(csErr, s.configString(protocol.CsAirAccel, "0"))
	}

	if s.masters != nil {
		s.masters.Resolve(s.now())
	}

	entities := ""
	if c.Kind == StateGame {
		s.overrideEntityString(c.Server)

		s.level.cm = c.CM
		c.CM = nil
		csErr = multierr.Append(csErr, s.configString(protocol.CsMapCheckSum, strconv.Itoa(int(int32(s.level.cm.Checksum())))))

		// set inline model names
		csErr = multierr.Append(csErr, s.configString(protocol.CsModels+1, "maps/"+c.Server+".bsp"))
		for i := 1; i < s.level.cm.NumSubmodels(); i++ {
			csErr = multierr.Append(csErr, s.configString(protocol.CsModels+1+i, "*"+strconv.Itoa(i)))
		}
		entities = s.level.EntityString()
	} else {
		// no real map
		csErr = multierr.Append(csErr, s.configString(protocol.CsMapCheckSum, "0"))
	}

	if csErr != nil {
		return s.setFatal(&FatalError{Op: "SpawnServer", Err: csErr})
	}

	// clear physics interaction links
	s.world.Clear(s.level.cm)

	// precache and static commands can be issued during map initialization
	s.level.State = StateLoading

	if err := s.game.SpawnEntities(s.level.Name, entities, c.SpawnPoint); err != nil {
		return s.setFatal(&FatalError{Op: "SpawnEntities", Err: err})
	}

	// run two frames to allow everything to settle
	s.runFrame()
	s.runFrame()

	// make sure maxclients string is correct
	if err := s.configString(protocol.CsMaxClients, strconv.Itoa(s.vars.MaxClients.Int())); err != nil {
		return s.setFatal(&FatalError{Op: "SpawnServer", Err: err})
	}

	s.checkForSavegame(c)

	// all precaches are complete
	s.level.State = c.Kind

	s.reg.InfoSet("mapName", s.level.Name)
	s.reg.InfoSet("port", s.vars.NetPort.String())
	s.vars.ServerRunning.SetInt(int(s.level.State))
	s.vars.ServerPaused.ForceSet("0")
	s.vars.TimeDemo.ForceSet("0")
	s.reg.SetLatching(true)
	s.publishStatus()

	if t := s.vars.ServerChangeMap.String(); t != "" && s.commands != nil {
		s.commands.AddText(t + "\n")
	}

	s.broadcastCommand("reconnect\n")

	conlog.Printf("-------------------------------------\n")
	return nil
}

func (s *Server) runFrame() {
	s.game.RunFrame()
	s.level.FrameNum++
}

// checkForSavegame restores the level file if one is wanted. A level left
// earlier in the unit is run for ten seconds to let things settle.
func (s *Server) checkForSavegame(c *MapCommand) {
	if s.saves == nil || c.Kind != StateGame || !s.savesEnabled() {
		return
	}
	if !c.LoadGame {
		if s.vars.ServerNoReload.Bool() || s.vars.DeathMatch.Bool() {
			return
		}
		if !s.saves.Exists(s.level.Name) {
			return
		}
	}
	l, err := s.saves.Read(s.level.Name)
	if err == nil {
		err = s.game.ReadLevel(l)
	}
	if err != nil {
		conlog.EPrintf("Couldn't read level file for %s: %v\n", s.level.Name, err)
		return
	}
	n := reloadFrames
	if c.LoadGame {
		n = 2
	}
	for i := 0; i < n; i++ {
		s.runFrame()
	}
}

// writeLevel saves the running level so it can be restored when coming
// back to it.
func (s *Server) writeLevel() {
	if s.saves == nil || s.level.State != StateGame || !s.savesEnabled() {
		return
	}
	l, err := s.game.WriteLevel()
	if err == nil {
		err = s.saves.Write(s.level.Name, l)
	}
	if err != nil {
		conlog.EPrintf("Couldn't write level file for %s: %v\n", s.level.Name, err)
	}
}

func (s *Server) clearSaves() {
	if s.saves == nil {
		return
	}
	if err := s.saves.Clear(); err != nil {
		conlog.WPrintf("Couldn't clear saved levels: %v\n", err)
	}
}

func (s *Server) gameDir() string {
	if g, ok := s.files.(interface{ GameDir() string }); ok {
		return g.GameDir()
	}
	return "."
}
