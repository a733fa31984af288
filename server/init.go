// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"net"
	"time"

	"goquake2/conlog"
	"goquake2/cvar"
	"goquake2/protocol"
)

// InitGame starts a brand new game. A running game is shut down first and
// its clients are told to reconnect. The only error returned is a
// *FatalError.
func (s *Server) InitGame() error {
	if s.initialized {
		// cause any connected clients to reconnect
		s.Shutdown("Server restarted\n", true)
	} else {
		// make sure the client is down
		if s.local != nil {
			s.local.Disconnect()
			s.local.BeginLoadingPlaque()
		}
		s.level.free()
	}

	// get any latched variable changes (maxclients, etc)
	s.reg.GetLatchedVars()

	if s.vars.Coop.Bool() && s.vars.DeathMatch.Bool() {
		conlog.WPrintf("Deathmatch and Coop both set, disabling Coop\n")
		s.vars.Coop.ForceSet("0")
	}

	// dedicated servers can't be single player and are usually DM
	// so unless they explicity set coop, force it to deathmatch
	if s.vars.Dedicated.Bool() && !s.vars.Coop.Bool() {
		s.vars.DeathMatch.ForceSet("1")
	}

	// init clients
	mc := s.vars.MaxClients
	if s.vars.DeathMatch.Bool() {
		if mc.Int() <= 1 {
			mc.SetInt(8)
		} else if mc.Int() > protocol.ClientNumReserved {
			mc.SetInt(protocol.ClientNumReserved)
		}
	} else if s.vars.Coop.Bool() {
		// a single player coop game makes no sense, 1 goes to 4 as well
		if mc.Int() <= 1 || mc.Int() > 4 {
			mc.SetInt(4)
		}
	} else {
		// non-deathmatch, non-coop is one player
		s.vars.MaxClients = s.reg.FullSet("maxclients", "1", cvar.SERVERINFO|cvar.LATCH)
		mc = s.vars.MaxClients
	}
	n := mc.Int()

	// enable networking
	if n > 1 && s.transport != nil {
		addr := net.JoinHostPort("", s.vars.NetPort.String())
		if err := s.transport.Enable(addr); err != nil {
			conlog.EPrintf("Couldn't enable networking: %v\n", err)
		}
	}

	s.sessions = make([]*Session, n)
	s.entities = make([]PackedEntity, n*protocol.UpdateBackup*protocol.MaxPacketEntities)
	s.conns = make(map[Conn]*Session)

	s.vars.ReservedSlots.ClampInt(0, n-1)

	if s.caps.Compression {
		z, err := s.newCompressor()
		if err != nil {
			return s.setFatal(&FatalError{Op: "InitGame: deflate init", Err: err})
		}
		s.compress = z
	}

	if err := s.game.Init(n); err != nil {
		return s.setFatal(&FatalError{Op: "InitGame", Err: err})
	}

	// send heartbeat very soon
	s.lastHeartbeat = s.now().Add(-(protocol.HeartbeatSeconds - 5) * time.Second)

	for i := range s.sessions {
		s.sessions[i] = &Session{Number: i, Edict: i + 1}
		if e := s.game.Edict(i + 1); e != nil {
			e.Number = i + 1
		}
	}

	s.initialized = true
	return nil
}

// Shutdown sends message to every client and drops them. With reconnect set
// the clients come back once the server is up again.
func (s *Server) Shutdown(message string, reconnect bool) {
	if !s.initialized {
		return
	}
	for _, c := range s.sessions {
		if c.conn == nil {
			continue
		}
		c.reliable.ClearMessage()
		c.Print(protocol.PrintHigh, message)
		if reconnect {
			c.reliable.WriteByte(protocol.SvcReconnect)
		} else {
			c.reliable.WriteByte(protocol.SvcDisconnect)
		}
		c.flush()
		c.conn.Close()
	}
	s.sessions = nil
	s.entities = nil
	s.conns = make(map[Conn]*Session)

	s.game.Shutdown()
	s.world.Clear(nil)
	s.level.free()
	s.compress = nil

	if s.transport != nil {
		if err := s.transport.Disable(); err != nil {
			conlog.WPrintf("%v\n", err)
		}
	}
	s.vars.ServerRunning.SetInt(0)
	s.reg.SetLatching(false)
	s.initialized = false
}
