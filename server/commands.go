// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"sort"

	"github.com/pkg/errors"

	"goquake2/cmd"
	"goquake2/conlog"
)

func (s *Server) AddCommands(c *cmd.Commands) error {
	for _, e := range []struct {
		name string
		f    cmd.QFunc
	}{
		{"map", s.mapCmd},
		{"gamemap", s.gameMapCmd},
		{"status", s.statusCmd},
		{"killserver", s.killServerCmd},
		{"serverinfo", s.serverInfoCmd},
	} {
		if err := c.Add(e.name, e.f); err != nil {
			return err
		}
	}
	return nil
}

// changeMap parses token and switches to it. A map which can not be loaded
// is reported and the current level keeps running.
func (s *Server) changeMap(token string, restart bool) error {
	c, err := s.ParseMapCommand(token)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			conlog.Printf("%v\n", pe)
			return nil
		}
		return err
	}
	if restart {
		// a new game starts without saved levels
		s.clearSaves()
		if err := s.InitGame(); err != nil {
			c.CM.Free()
			return err
		}
	} else if c.EndOfUnit {
		s.clearSaves()
	} else {
		s.writeLevel()
	}
	return s.SpawnServer(c)
}

// Map starts a new game on the given map, "map <token>".
func (s *Server) Map(token string) error {
	return s.changeMap(token, true)
}

// GameMap changes the level keeping the game, "gamemap <token>".
func (s *Server) GameMap(token string) error {
	if !s.initialized {
		return s.changeMap(token, true)
	}
	return s.changeMap(token, false)
}

func (s *Server) mapCmd(a cmd.Arguments) error {
	if a.Argc() != 2 {
		conlog.Printf("Usage: map <mapname>\n")
		return nil
	}
	return s.Map(a.Argv(1).String())
}

func (s *Server) gameMapCmd(a cmd.Arguments) error {
	if a.Argc() != 2 {
		conlog.Printf("Usage: gamemap <mapname>\n")
		return nil
	}
	return s.GameMap(a.Argv(1).String())
}

func (s *Server) killServerCmd(_ cmd.Arguments) error {
	if !s.initialized {
		conlog.Printf("No server running.\n")
		return nil
	}
	s.Shutdown("Server was killed.\n", false)
	return nil
}

func (s *Server) statusCmd(_ cmd.Arguments) error {
	if !s.initialized {
		conlog.Printf("No server running.\n")
		return nil
	}
	conlog.Printf("Current map: %s (%v)\n", s.level.Name, s.level.State)
	conlog.Printf("num state     name            address\n")
	conlog.Printf("--- --------- --------------- ---------------------\n")
	for _, c := range s.sessions {
		if c.State == SessionFree {
			continue
		}
		addr := ""
		if c.conn != nil {
			addr = c.conn.RemoteAddr()
		}
		conlog.Printf("%3d %-9v %-15s %s\n", c.Number, c.State, c.Name, addr)
	}
	return nil
}

func (s *Server) serverInfoCmd(_ cmd.Arguments) error {
	info := s.reg.Info()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	conlog.Printf("Server info settings:\n")
	for _, k := range keys {
		conlog.Printf("%-20s %s\n", k, info[k])
	}
	return nil
}
