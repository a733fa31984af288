// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvars holds the cvars the server core reads.
package cvars

import (
	"strconv"

	"goquake2/cvar"
	"goquake2/protocol"
)

type Server struct {
	Coop            *cvar.Cvar
	DeathMatch      *cvar.Cvar
	Dedicated       *cvar.Cvar
	Developer       *cvar.Cvar
	HostName        *cvar.Cvar
	MapOverridePath *cvar.Cvar
	MaxClients      *cvar.Cvar
	NetPort         *cvar.Cvar
	NextServer      *cvar.Cvar
	Public          *cvar.Cvar
	ServerAirAccel  *cvar.Cvar
	ServerChangeMap *cvar.Cvar
	ServerNoReload  *cvar.Cvar
	ServerPaused    *cvar.Cvar
	ServerRunning   *cvar.Cvar
	ServerSaveDir   *cvar.Cvar
	ReservedSlots   *cvar.Cvar
	TimeDemo        *cvar.Cvar
}

// Register creates the server cvars in r.
func Register(r *cvar.Registry, dedicated bool) *Server {
	d := "0"
	if dedicated {
		d = "1"
	}
	return &Server{
		Coop:            r.MustRegister("coop", "0", cvar.LATCH),
		DeathMatch:      r.MustRegister("deathmatch", "0", cvar.SERVERINFO|cvar.LATCH),
		Dedicated:       r.MustRegister("dedicated", d, cvar.NOSET),
		Developer:       r.MustRegister("developer", "0", cvar.NONE),
		HostName:        r.MustRegister("hostname", "noname", cvar.SERVERINFO|cvar.ARCHIVE),
		MapOverridePath: r.MustRegister("map_override_path", "", cvar.NONE),
		MaxClients:      r.MustRegister("maxclients", "1", cvar.SERVERINFO|cvar.LATCH),
		NetPort:         r.MustRegister("net_port", strconv.Itoa(protocol.PortServer), cvar.NONE),
		NextServer:      r.MustRegister("nextserver", "", cvar.NONE),
		Public:          r.MustRegister("public", "0", cvar.NONE),
		ServerAirAccel:  r.MustRegister("sv_airaccelerate", "0", cvar.LATCH),
		ServerChangeMap: r.MustRegister("sv_changemapcmd", "", cvar.NONE),
		ServerNoReload:  r.MustRegister("sv_noreload", "0", cvar.NONE),
		ServerPaused:    r.MustRegister("sv_paused", "0", cvar.ROM),
		ServerRunning:   r.MustRegister("sv_running", "0", cvar.ROM),
		ServerSaveDir:   r.MustRegister("sv_savedir", "save", cvar.NONE),
		ReservedSlots:   r.MustRegister("sv_reserved_slots", "0", cvar.LATCH),
		TimeDemo:        r.MustRegister("timedemo", "0", cvar.NONE),
	}
}
