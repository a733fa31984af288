// SPDX-License-Identifier: GPL-2.0-or-later

// Package alias implements console aliases, names that expand to a line of
// commands.
package alias

import (
	"sort"
	"strings"

	"goquake2/cbuf"
	"goquake2/cmd"
	"goquake2/conlog"
)

type Aliases struct {
	m map[string]string
}

func New() *Aliases {
	return &Aliases{m: make(map[string]string)}
}

func (al *Aliases) Register(c *cmd.Commands) error {
	if err := c.Add("alias", al.alias); err != nil {
		return err
	}
	if err := c.Add("unalias", al.unalias); err != nil {
		return err
	}
	return c.Add("unaliasall", al.unaliasAll)
}

func (al *Aliases) alias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 0:
		al.list()
	case 1:
		if v, ok := al.m[args[0].String()]; ok {
			conlog.Printf("  %s: %s", args[0].String(), v)
		}
	default:
		// the parts have '"' already removed
		parts := make([]string, 0, len(args)-1)
		for _, p := range args[1:] {
			parts = append(parts, p.String())
		}
		al.m[args[0].String()] = strings.TrimSpace(strings.Join(parts, " ")) + "\n"
	}
	return nil
}

func (al *Aliases) list() {
	if len(al.m) == 0 {
		conlog.SafePrintf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al.m))
	for k := range al.m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		// each alias value ends with a '\n'
		conlog.SafePrintf("  %s: %s", k, al.m[k])
	}
	conlog.SafePrintf("%v alias command(s)\n", len(al.m))
}

func (al *Aliases) unalias(a cmd.Arguments) error {
	if a.Argc() != 2 {
		conlog.Printf("unalias <name> : delete alias\n")
		return nil
	}
	name := a.Argv(1).String()
	if _, ok := al.m[name]; !ok {
		conlog.Printf("No alias named %s\n", name)
		return nil
	}
	delete(al.m, name)
	return nil
}

func (al *Aliases) unaliasAll(_ cmd.Arguments) error {
	al.m = make(map[string]string)
	return nil
}

func (al *Aliases) Get(name string) (string, bool) {
	v, ok := al.m[name]
	return v, ok
}

// Execute is a command buffer executor running the alias named by a.
func (al *Aliases) Execute(cb *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	v, ok := al.Get(args[0].String())
	if !ok {
		return false, nil
	}
	cb.InsertText(strings.TrimSuffix(v, "\n"))
	return true, nil
}
