// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"goquake2/cmd"
	"goquake2/conlog"
)

// AddCommands registers the cvar console commands on c.
func (r *Registry) AddCommands(c *cmd.Commands) error {
	for name, f := range map[string]cmd.QFunc{
		"cvarlist": r.list,
		"reset":    r.reset,
		"set":      r.set,
		"toggle":   r.toggle,
	} {
		if err := c.Add(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) set(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 2:
		r.Set(args[0].String(), args[1].String())
	case 3:
		// set <cvar> <value> s|u: also publish as server or user info
		var f flag
		switch args[2].String() {
		case "s":
			f = SERVERINFO
		case "u":
			f = USERINFO
		default:
			conlog.Printf("flags can only be 'u' or 's'\n")
			return nil
		}
		cv := r.Set(args[0].String(), args[1].String())
		if cv.flags&f == 0 {
			r.FullSet(cv.name, cv.stringValue, cv.flags|f)
		}
	default:
		conlog.Printf("set <cvar> <value> [u / s]\n")
	}
	return nil
}

func (r *Registry) toggle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("toggle <cvar> : toggle cvar\n")
		return nil
	}
	cv, ok := r.Get(args[0].String())
	if !ok {
		conlog.Printf("toggle: variable %v not found\n", args[0].String())
		return nil
	}
	if cv.Bool() {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
	return nil
}

func (r *Registry) reset(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("reset <cvar> : reset cvar to default\n")
		return nil
	}
	cv, ok := r.Get(args[0].String())
	if !ok {
		conlog.Printf("reset: variable %v not found\n", args[0].String())
		return nil
	}
	cv.Reset()
	return nil
}

func (r *Registry) list(_ cmd.Arguments) error {
	for _, v := range r.cvars {
		a, s, l := " ", " ", " "
		if v.Archive() {
			a = "*"
		}
		if v.ServerInfo() {
			s = "S"
		}
		if v.flags&LATCH != 0 {
			l = "L"
		}
		conlog.SafePrintf("%s%s%s %s \"%s\"\n", a, s, l, v.Name(), v.String())
	}
	conlog.SafePrintf("%v cvars\n", len(r.cvars))
	return nil
}
