// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"github.com/google/uuid"

	"goquake2/net"
	"goquake2/protocol"
)

type SessionState int

const (
	SessionFree      SessionState = iota // can be reused for a new connection
	SessionZombie                        // client has been disconnected, don't reuse yet
	SessionAssigned                      // slot taken, handshake not done
	SessionConnected                     // has been assigned to a client, but not in game yet
	SessionPrimed                        // gamestate sent, waiting for begin
	SessionSpawned                       // client is fully in game
)

func (s SessionState) String() string {
	switch s {
	case SessionFree:
		return "free"
	case SessionZombie:
		return "zombie"
	case SessionAssigned:
		return "assigned"
	case SessionConnected:
		return "connected"
	case SessionPrimed:
		return "primed"
	case SessionSpawned:
		return "spawned"
	}
	return "unknown"
}

// Conn is the transport side of a session.
type Conn interface {
	Send(data []byte) error
	Close()
	RemoteAddr() string
}

type UserCmd struct {
	Msec       uint8
	Buttons    uint8
	Angles     [3]int16
	Forward    int16
	Side       int16
	Up         int16
	Impulse    uint8
	LightLevel uint8
}

type Session struct {
	ID     uuid.UUID
	Number int // slot in the session table
	Edict  int // == Number + 1
	Name   string
	State  SessionState

	// FrameNumber 0 means there is no baseline
	FrameNumber   int
	LastFrame     int // -1 = none acknowledged
	FramesNoDelta int
	SendDelta     int
	SuppressCount int
	// the level instance the client was last told about
	SpawnCount int
	LastCmd    UserCmd

	reliable net.Message
	conn     Conn
}

// Reset puts a session of a client at least connected back to connected,
// ready to receive the next level. Sessions which never finished
// connecting are left alone.
func (s *Session) Reset() {
	if s.State < SessionConnected {
		return
	}
	s.State = SessionConnected
	s.FrameNumber = 1 // frame 0 can't be used
	s.LastFrame = -1
	s.FramesNoDelta = 0
	s.SendDelta = 0
	s.SuppressCount = 0
	s.LastCmd = UserCmd{}
}

func (s *Session) StuffText(text string) {
	s.reliable.WriteByte(protocol.SvcStuffText)
	s.reliable.WriteString(text)
}

func (s *Session) Print(level int, text string) {
	s.reliable.WriteByte(protocol.SvcPrint)
	s.reliable.WriteByte(level)
	s.reliable.WriteString(text)
}

// Pending returns the queued reliable data.
func (s *Session) Pending() []byte {
	return s.reliable.Bytes()
}

func (s *Session) flush() error {
	if !s.reliable.HasMessage() {
		return nil
	}
	defer s.reliable.ClearMessage()
	if s.conn == nil {
		return nil
	}
	return s.conn.Send(s.reliable.Bytes())
}

func (s *Session) attach(c Conn) {
	s.ID = uuid.Must(uuid.NewV7())
	s.conn = c
	s.State = SessionConnected
	s.FrameNumber = 1
	s.LastFrame = -1
	s.reliable.ClearMessage()
}

// free returns the slot to the pool, keeping its number and edict.
func (s *Session) free() {
	n, e := s.Number, s.Edict
	*s = Session{Number: n, Edict: e}
}
