// SPDX-License-Identifier: GPL-2.0-or-later

// Package game is the gameplay side of the server: the entities of a level
// and their simulation.
package game

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// Module is the interface the server drives a game through.
type Module interface {
	Init(maxClients int) error
	Shutdown()
	// SpawnEntities creates the entities of a freshly loaded level.
	SpawnEntities(name, entities, spawnPoint string) error
	RunFrame()
	Edict(n int) *Edict
	WriteLevel() (*structpb.Struct, error)
	ReadLevel(l *structpb.Struct) error
}

// Imports are the server functions a game calls back into.
type Imports interface {
	SetConfigString(i int, s string) error
	LinkEdict(e *Edict)
	UnlinkEdict(e *Edict)
}

// Binder is implemented by modules which need the server imports.
type Binder interface {
	Bind(i Imports)
}
