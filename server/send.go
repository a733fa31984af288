// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"bytes"
	"fmt"
	"strings"

	"goquake2/conlog"
	"goquake2/net"
	"goquake2/protocol"
)

// gamestates smaller than this are not worth compressing
const minCompress = 64

// broadcastCommand stuffs text into the console of every client with a
// connection.
func (s *Server) broadcastCommand(text string) {
	for _, c := range s.sessions {
		if c.State <= SessionZombie {
			continue
		}
		c.StuffText(text)
	}
}

// BroadcastPrintf prints to every client in game.
func (s *Server) BroadcastPrintf(level int, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	for _, c := range s.sessions {
		if c.State != SessionSpawned {
			continue
		}
		c.Print(level, msg)
	}
}

// SendClientMessages flushes the reliable queue of every session. Clients
// whose connection fails are dropped.
func (s *Server) SendClientMessages() {
	for _, c := range s.sessions {
		if c.State <= SessionZombie {
			continue
		}
		if err := c.flush(); err != nil {
			conlog.Printf("%s: %v\n", c.Name, err)
			s.dropClient(c)
		}
	}
}

// writeGamestate queues serverdata and all configstrings for c, followed by
// the precache command the client answers with begin.
func (s *Server) writeGamestate(c *Session) {
	var m net.Message
	m.WriteByte(protocol.SvcServerData)
	m.WriteLong(protocol.Version)
	m.WriteLong(s.level.SpawnCount)
	m.WriteByte(0) // attractloop
	m.WriteString(s.reg.String("game"))
	if s.level.State == StateCinematic || s.level.State == StatePicture {
		m.WriteShort(-1)
	} else {
		m.WriteShort(c.Number)
	}
	m.WriteString(s.level.ConfigString(protocol.CsName))

	for i := 0; i < protocol.MaxConfigStrings; i++ {
		v := s.level.ConfigString(i)
		if v == "" {
			continue
		}
		m.WriteByte(protocol.SvcConfigString)
		m.WriteShort(i)
		m.WriteString(v)
	}

	if z, ok := s.deflate(m.Bytes()); ok {
		c.reliable.WriteByte(protocol.SvcZPacket)
		c.reliable.WriteShort(len(z))
		c.reliable.WriteShort(m.Len())
		c.reliable.WriteBytes(z)
	} else {
		c.reliable.WriteBytes(m.Bytes())
	}
	c.StuffText(fmt.Sprintf("precache %d\n", s.level.SpawnCount))
}

// deflate compresses b with the shared compressor. It reports false when
// compression is off or does not pay.
func (s *Server) deflate(b []byte) ([]byte, bool) {
	if s.compress == nil || len(b) < minCompress || len(b) > 0x7fff {
		return nil, false
	}
	var out bytes.Buffer
	s.compress.Reset(&out)
	if _, err := s.compress.Write(b); err != nil {
		conlog.WPrintf("deflate: %v\n", err)
		return nil, false
	}
	if err := s.compress.Close(); err != nil {
		conlog.WPrintf("deflate: %v\n", err)
		return nil, false
	}
	if out.Len() >= len(b) || out.Len() > 0x7fff {
		return nil, false
	}
	return out.Bytes(), true
}

// statusString is the serverinfo followed by one line per player.
func (s *Server) statusString() string {
	var b strings.Builder
	b.WriteString(s.reg.ServerInfo())
	b.WriteString("\n")
	for _, c := range s.sessions {
		if c.State != SessionSpawned {
			continue
		}
		fmt.Fprintf(&b, "%d %d \"%s\"\n", 0, 0, c.Name)
	}
	return b.String()
}

// heartbeat announces a public dedicated server to the masters every
// HeartbeatSeconds.
func (s *Server) heartbeat() {
	if s.masters == nil || !s.caps.Dedicated || !s.vars.Public.Bool() {
		return
	}
	now := s.now()
	if now.Sub(s.lastHeartbeat).Seconds() < protocol.HeartbeatSeconds {
		return
	}
	s.lastHeartbeat = now
	s.masters.Heartbeat([]byte(s.statusString()))
}

type statusPublisher interface {
	PublishStatus(info map[string]string)
}

func (s *Server) publishStatus() {
	if p, ok := s.transport.(statusPublisher); ok {
		p.PublishStatus(s.reg.Info())
	}
}
