// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"github.com/pkg/errors"

	"goquake2/bsp"
	"goquake2/protocol"
)

type ServerState int

const (
	StateDead      ServerState = iota // no map loaded
	StateLoading                      // spawning level edicts
	StateGame                         // actively running
	StateCinematic                    // playing a cinematic
	StatePicture                      // showing a picture
)

func (s ServerState) String() string {
	switch s {
	case StateDead:
		return "dead"
	case StateLoading:
		return "loading"
	case StateGame:
		return "game"
	case StateCinematic:
		return "cinematic"
	case StatePicture:
		return "picture"
	}
	return "unknown"
}

var (
	ErrConfigOverflow = errors.New("configstring overflow")
	ErrConfigIndex    = errors.New("bad configstring index")
)

// Level is the state of the currently loaded map. It is thrown away on
// every map change.
type Level struct {
	State      ServerState
	Name       string // map name
	MapCmd     string // the map command which started the level
	SpawnCount int
	FrameNum   int

	configStrings [protocol.MaxConfigStrings]string
	cm            *bsp.Model
	// loaded from map_override_path, replaces the one of cm
	entityString string
}

func (l *Level) ConfigString(i int) string {
	if i < 0 || i >= protocol.MaxConfigStrings {
		return ""
	}
	return l.configStrings[i]
}

// SetConfigString stores s in slot i. A value not fitting the slot is
// rejected and the slot keeps its old value.
func (l *Level) SetConfigString(i int, s string) error {
	if i < 0 || i >= protocol.MaxConfigStrings {
		return errors.Wrapf(ErrConfigIndex, "%d", i)
	}
	if len(s) >= protocol.ConfigStringSize(i) {
		return errors.Wrapf(ErrConfigOverflow, "index %d, %d bytes", i, len(s))
	}
	l.configStrings[i] = s
	return nil
}

func (l *Level) CM() *bsp.Model {
	return l.cm
}

// EntityString returns the entities the level was spawned from.
func (l *Level) EntityString() string {
	if l.entityString != "" {
		return l.entityString
	}
	if l.cm != nil {
		return l.cm.EntityString()
	}
	return ""
}

func (l *Level) free() {
	l.cm.Free()
	*l = Level{}
}
