// SPDX-License-Identifier: GPL-2.0-or-later

// Package savegame keeps the level files of the current game. Leaving a
// level in single player writes it, coming back restores it.
package savegame

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	currentDir = "current"
	levelExt   = ".sav"
)

// Store reads and writes level files below the directory returned by dir,
// evaluated on every call since the save directory is a cvar.
type Store struct {
	dir func() string
}

func New(dir func() string) *Store {
	return &Store{dir: dir}
}

func (s *Store) current() string {
	return filepath.Join(s.dir(), currentDir)
}

func (s *Store) path(mapName string) (string, error) {
	if mapName == "" || strings.ContainsAny(mapName, `/\:`) || strings.Contains(mapName, "..") {
		return "", errors.Errorf("bad level name %q", mapName)
	}
	return filepath.Join(s.current(), mapName+levelExt), nil
}

// Exists reports whether a level file for mapName was written.
func (s *Store) Exists(mapName string) bool {
	p, err := s.path(mapName)
	if err != nil {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func (s *Store) Write(mapName string, l *structpb.Struct) error {
	p, err := s.path(mapName)
	if err != nil {
		return err
	}
	out, err := proto.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "failed to encode level")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return err
	}
	if err := os.WriteFile(p, out, 0660); err != nil {
		return errors.Wrap(err, "failed to write level")
	}
	return nil
}

func (s *Store) Read(mapName string) (*structpb.Struct, error) {
	p, err := s.path(mapName)
	if err != nil {
		return nil, err
	}
	in, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	l := &structpb.Struct{}
	if err := proto.Unmarshal(in, l); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", p)
	}
	return l, nil
}

// Clear removes all level files, a new game starts without history.
func (s *Store) Clear() error {
	m, err := filepath.Glob(filepath.Join(s.current(), "*"+levelExt))
	if err != nil {
		return err
	}
	for _, f := range m {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}
