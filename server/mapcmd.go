// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"goquake2/bsp"
	"goquake2/cvar"
	"goquake2/filesystem"
	"goquake2/protocol"
)

// MapCommand is a parsed map change request
//
//	[*]name[$spawnpoint][+nextmap]
//
// Server and SpawnPoint are substrings of Buffer.
type MapCommand struct {
	Buffer     string
	Server     string
	SpawnPoint string
	EndOfUnit  bool // a '*' map clears the saved levels
	LoadGame   bool // restore the saved level
	Kind       ServerState
	CM         *bsp.Model // owned until handed to the level
}

// ParseError is a map command which can not be loaded. The running level is
// not affected.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Couldn't load %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Cause() error {
	return e.Err
}

type ParseDeps struct {
	Files      Files
	Maps       MapLoader
	NextServer *cvar.Cvar
}

// ParseMapCommand splits raw into its parts and loads the referenced map to
// make sure switching to it can not fail later. Besides nextserver nothing
// is changed on error.
func ParseMapCommand(raw string, d ParseDeps) (*MapCommand, error) {
	if len(raw) >= protocol.MaxQPath {
		return nil, &ParseError{Path: raw, Err: filesystem.ErrNameTooLong}
	}
	c := &MapCommand{Buffer: raw}
	s := raw
	if strings.HasPrefix(s, "*") {
		s = s[1:]
		c.EndOfUnit = true
	}

	// if there is a + in the map, set nextserver to the remainder
	if i := strings.IndexByte(s, '+'); i >= 0 {
		d.NextServer.ForceSet(fmt.Sprintf("gamemap \"%s\"", s[i+1:]))
		s = s[:i]
	} else {
		d.NextServer.ForceSet("")
	}

	// if there is a $, use the remainder as a spawnpoint
	if i := strings.IndexByte(s, '$'); i >= 0 {
		c.SpawnPoint = s[i+1:]
		s = s[:i]
	} else {
		c.SpawnPoint = raw[len(raw):]
	}
	c.Server = s

	var expanded string
	var err error
	switch {
	case filesystem.HasExt(s, ".pcx"):
		c.Kind = StatePicture
		expanded = "pics/" + s
		if len(expanded) >= protocol.MaxQPath {
			err = filesystem.ErrNameTooLong
		} else {
			_, err = d.Files.LoadFile(expanded, 0)
		}
	case filesystem.HasExt(s, ".cin"):
		c.Kind = StateCinematic
		// nothing to load
		expanded = s
	default:
		c.Kind = StateGame
		expanded = "maps/" + s + ".bsp"
		if len(expanded) >= protocol.MaxQPath {
			err = filesystem.ErrNameTooLong
		} else {
			c.CM, err = d.Maps.LoadMap(expanded)
		}
		// every inline model needs a slot in the model configstrings
		if err == nil && c.CM.NumSubmodels() > protocol.MaxModels-1 {
			err = errors.Wrapf(bsp.ErrTooMany, "%d inline models", c.CM.NumSubmodels())
			c.CM.Free()
		}
	}
	if err != nil {
		return nil, &ParseError{Path: expanded, Err: err}
	}
	return c, nil
}

func (s *Server) ParseMapCommand(raw string) (*MapCommand, error) {
	return ParseMapCommand(raw, ParseDeps{
		Files:      s.files,
		Maps:       s.maps,
		NextServer: s.vars.NextServer,
	})
}
