// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type QFunc func(args Arguments) error

type Commands map[string]QFunc

func New() *Commands {
	c := make(Commands)
	return &c
}

func (c *Commands) Add(name string, f QFunc) error {
	ln := strings.ToLower(name)
	if _, ok := (*c)[ln]; ok {
		return errors.Errorf("Cmd_AddCommand: %s already defined", ln)
	}
	(*c)[ln] = f
	return nil
}

func (c *Commands) Exists(cmdName string) bool {
	_, ok := (*c)[strings.ToLower(cmdName)]
	return ok
}

func (c *Commands) List() []string {
	cmds := make([]string, 0, len(*c))
	for cmd := range *c {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// Execute runs the command named by the first argument. It reports false if
// no such command exists.
func (c *Commands) Execute(a Arguments) (bool, error) {
	n := a.Args()
	if len(n) == 0 {
		return false, nil
	}
	cmd, ok := (*c)[strings.ToLower(n[0].String())]
	if !ok {
		return false, nil
	}
	if err := cmd(a); err != nil {
		return true, errors.Wrap(err, n[0].String())
	}
	return true, nil
}

func Must(err error) {
	if err != nil {
		panic(err.Error())
	}
}
