// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"strconv"

	"goquake2/cmd"
	"goquake2/conlog"
	"goquake2/protocol"
	"goquake2/transport"
)

// Connect gives c a free session. Reserved slots are kept out of reach.
func (s *Server) Connect(c Conn) (*Session, bool) {
	if !s.initialized {
		return nil, false
	}
	limit := len(s.sessions) - s.vars.ReservedSlots.Int()
	for i := 0; i < limit; i++ {
		cl := s.sessions[i]
		if cl.State != SessionFree {
			continue
		}
		cl.attach(c)
		cl.SpawnCount = s.level.SpawnCount
		cl.Name = c.RemoteAddr()
		s.conns[c] = cl
		conlog.DPrintf("%s connected in slot %d\n", cl.Name, cl.Number)
		return cl, true
	}
	return nil, false
}

func (s *Server) dropClient(c *Session) {
	if c.State <= SessionZombie {
		return
	}
	if c.conn != nil {
		c.conn.Close()
		delete(s.conns, c.conn)
		c.conn = nil
	}
	if e := s.game.Edict(c.Edict); e != nil && e.Linked {
		s.world.UnlinkEdict(e)
	}
	c.reliable.ClearMessage()
	c.State = SessionZombie
	conlog.DPrintf("%s dropped\n", c.Name)
}

func (s *Server) handleEvent(ev transport.Event) {
	switch ev.Type {
	case transport.Connected:
		if _, ok := s.Connect(ev.Conn); !ok {
			msg := []byte{protocol.SvcPrint, protocol.PrintHigh}
			msg = append(msg, "Server is full.\n\x00"...)
			msg = append(msg, protocol.SvcDisconnect)
			ev.Conn.Send(msg)
			ev.Conn.Close()
		}
	case transport.Message:
		if c, ok := s.conns[ev.Conn]; ok {
			s.executeClientCommand(c, string(ev.Data))
		}
	case transport.Disconnected:
		if c, ok := s.conns[ev.Conn]; ok {
			s.dropClient(c)
		}
	}
}

// executeClientCommand handles the text commands of the connection
// handshake.
func (s *Server) executeClientCommand(c *Session, line string) {
	a := cmd.Parse(line)
	args := a.Args()
	if len(args) == 0 {
		return
	}
	switch args[0].String() {
	case "new":
		if s.level.State == StateDead || s.level.State == StateLoading {
			return
		}
		if c.State != SessionConnected {
			conlog.DPrintf("new not valid, %s is %v\n", c.Name, c.State)
			return
		}
		s.writeGamestate(c)
		c.State = SessionPrimed
	case "begin":
		if c.State != SessionPrimed {
			return
		}
		// handle the case of a level changing while a client was connecting
		if len(args) < 2 || args[1].Int() != s.level.SpawnCount {
			conlog.DPrintf("begin from different level\n")
			c.State = SessionConnected
			c.StuffText("cmd new\n")
			return
		}
		c.State = SessionSpawned
		c.SpawnCount = s.level.SpawnCount
		if e := s.game.Edict(c.Edict); e != nil {
			e.InUse = true
		}
	case "disconnect":
		s.dropClient(c)
	case "name":
		if len(args) > 1 {
			c.Name = args[1].String()
		}
	default:
		conlog.DPrintf("%s: unknown command %s\n", c.Name, strconv.Quote(args[0].String()))
	}
}

// Frame runs one server frame: client traffic, simulation, outbound
// messages and heartbeats. It returns the fatal error which stopped the
// server, if any.
func (s *Server) Frame() error {
	if s.fatal != nil {
		return s.fatal
	}
	if s.transport != nil {
	Events:
		for {
			select {
			case ev := <-s.transport.Events():
				s.handleEvent(ev)
			default:
				break Events
			}
		}
	}
	for _, c := range s.sessions {
		// zombies linger for one frame so the slot is not reused while
		// the old connection goes down
		if c.State == SessionZombie {
			c.free()
		}
	}
	if s.level.State == StateGame && !s.vars.ServerPaused.Bool() {
		s.runFrame()
	}
	s.SendClientMessages()
	s.heartbeat()
	return nil
}
