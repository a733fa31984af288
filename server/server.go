// SPDX-License-Identifier: GPL-2.0-or-later

// Package server runs the authoritative simulation: it loads levels, moves
// the connected clients from one level to the next and drives the game
// module.
package server

import (
	"compress/flate"
	"io"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"goquake2/bsp"
	"goquake2/cbuf"
	"goquake2/cvar"
	"goquake2/cvars"
	"goquake2/game"
	"goquake2/protocol"
	"goquake2/qtime"
	"goquake2/rand"
	"goquake2/transport"
)

// Capabilities are decided once at startup.
type Capabilities struct {
	Dedicated   bool // no local client
	Compression bool // deflate the gamestate
	LocalClient bool
}

type Files interface {
	LoadFile(path string, max int64) ([]byte, error)
}

type MapLoader interface {
	LoadMap(path string) (*bsp.Model, error)
}

type Transport interface {
	Enable(addr string) error
	Disable() error
	Events() <-chan transport.Event
}

// LocalClient is the client running in the same process, if any.
type LocalClient interface {
	BeginLoadingPlaque()
	Disconnect()
}

type Masters interface {
	Resolve(now time.Time)
	Heartbeat(payload []byte)
}

// LevelStore keeps the levels of a single player unit.
type LevelStore interface {
	Exists(mapName string) bool
	Write(mapName string, l *structpb.Struct) error
	Read(mapName string) (*structpb.Struct, error)
	Clear() error
}

type Config struct {
	Capabilities
	Cvars *cvar.Registry
	Vars  *cvars.Server
	Files Files
	Maps  MapLoader
	Game  game.Module
	// optional
	Transport Transport
	Local     LocalClient
	Masters   Masters
	Saves     LevelStore
	Commands  *cbuf.CommandBuffer
	Now       func() time.Time
}

type Server struct {
	caps      Capabilities
	reg       *cvar.Registry
	vars      *cvars.Server
	files     Files
	maps      MapLoader
	game      game.Module
	transport Transport
	local     LocalClient
	masters   Masters
	saves     LevelStore
	commands  *cbuf.CommandBuffer
	now       func() time.Time
	rng       *rand.Generator

	level    Level
	world    *World
	sessions []*Session
	// snapshot pool, sessions * UpdateBackup * MaxPacketEntities
	entities   []PackedEntity
	nextEntity int
	conns      map[Conn]*Session

	initialized   bool
	compress      *flate.Writer
	newCompressor func() (*flate.Writer, error)
	lastHeartbeat time.Time
	savedirWarned bool
	fatal         error
}

// PackedEntity is the networked part of an edict as sent in one frame.
type PackedEntity struct {
	Number     int
	Origin     [3]float32
	Angles     [3]float32
	ModelIndex int
	Frame      int
	Skin       int
	Effects    uint32
	RenderFx   uint32
	Solid      int
}

func New(c Config) *Server {
	s := &Server{
		caps:      c.Capabilities,
		reg:       c.Cvars,
		vars:      c.Vars,
		files:     c.Files,
		maps:      c.Maps,
		game:      c.Game,
		transport: c.Transport,
		local:     c.Local,
		masters:   c.Masters,
		saves:     c.Saves,
		commands:  c.Commands,
		now:       c.Now,
		world:     NewWorld(),
		conns:     make(map[Conn]*Session),
		newCompressor: func() (*flate.Writer, error) {
			return flate.NewWriter(io.Discard, flate.DefaultCompression)
		},
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.vars == nil {
		s.vars = cvars.Register(s.reg, s.caps.Dedicated)
	}
	s.rng = rand.New(uint32(s.now().UnixNano()))
	s.world.edicts = func(n int) *game.Edict {
		return s.game.Edict(n)
	}
	if b, ok := s.game.(game.Binder); ok {
		b.Bind(s)
	}
	return s
}

// FatalError means the server can not continue. It is returned instead of
// aborting so the caller decides how to go down.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func (e *FatalError) Cause() error {
	return e.Err
}

func (s *Server) setFatal(err error) error {
	if s.fatal == nil {
		s.fatal = err
	}
	return err
}

// Err returns the fatal error which stopped the server, if any.
func (s *Server) Err() error {
	return s.fatal
}

func (s *Server) Level() *Level {
	return &s.level
}

func (s *Server) World() *World {
	return s.world
}

func (s *Server) Sessions() []*Session {
	return s.sessions
}

func (s *Server) Initialized() bool {
	return s.initialized
}

func (s *Server) Capabilities() Capabilities {
	return s.caps
}

// SnapshotPoolSize is the number of packed entities allocated for the
// client frames.
func (s *Server) SnapshotPoolSize() int {
	return len(s.entities)
}

// SetConfigString is called by the game. Outside of level loading the
// change is sent to all clients which already have the gamestate.
func (s *Server) SetConfigString(i int, v string) error {
	if err := s.level.SetConfigString(i, v); err != nil {
		return err
	}
	if s.level.State == StateLoading || s.level.State == StateDead {
		return nil
	}
	for _, c := range s.sessions {
		if c.State < SessionPrimed {
			continue
		}
		c.reliable.WriteByte(protocol.SvcConfigString)
		c.reliable.WriteShort(i)
		c.reliable.WriteString(v)
	}
	return nil
}

func (s *Server) LinkEdict(e *game.Edict) {
	s.world.LinkEdict(e)
}

func (s *Server) UnlinkEdict(e *game.Edict) {
	s.world.UnlinkEdict(e)
}

func millis() uint32 {
	return qtime.Milliseconds()
}
