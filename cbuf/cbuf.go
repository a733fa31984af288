// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"goquake2/cmd"
	"goquake2/conlog"
)

// Efunc reports whether it handled the command.
type Efunc func(*CommandBuffer, cmd.Arguments) (bool, error)

type CommandBuffer struct {
	// original: buffer of 8192 byte size
	buf string
	// toogle to add a wait to Execute,
	// causing the following commands to be executed one frame later
	wait      bool
	executors []Efunc
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

func (c *CommandBuffer) Pending() bool {
	return len(c.buf) != 0
}

// Execute runs queued lines until the buffer is empty or a "wait" is hit.
func (c *CommandBuffer) Execute() {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
			case ';':
				if !quote {
					break LineLoop
				}
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.buf[:i]
		// but remove this char as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if err := c.execute(line); err != nil {
			conlog.EPrintf("%v\n", err)
		}
		if c.wait {
			// wait for the next frame to continue executing
			c.wait = false
			return
		}
	}
}

func (c *CommandBuffer) execute(s string) error {
	a := cmd.Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	if args[0].String() == "wait" {
		c.wait = true
		return nil
	}
	for _, e := range c.executors {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	conlog.Printf("Unknown command \"%s\"\n", args[0].String())
	return nil
}
