// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline holds the startup flags of the server.
package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	compress  bool
	conDebug  bool
	noPublic  bool
	dedicated = boolInt{false, 8}

	port int

	basedir    string
	game       string
	configFile string
	saveDir    string
)

// boolInt is a flag which can be given alone or with a number.
type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	flag.BoolVar(&compress, "compress", true, "deflate the gamestate sent to clients")
	flag.BoolVar(&conDebug, "condebug", false, "enable debug console output")
	flag.BoolVar(&noPublic, "nopublic", false, "never send heartbeats")

	flag.Var(&dedicated, "dedicated", "Runs as dedicated server, optional number of clients")

	flag.IntVar(&port, "port", 27910, "")

	flag.StringVar(&basedir, "basedir", ".", "directory holding the game directories")
	flag.StringVar(&game, "game", "", "mod directory on top of baseq2")
	flag.StringVar(&configFile, "config", "", "yaml server configuration, reloaded on change")
	flag.StringVar(&saveDir, "savedir", "", "initial value of sv_savedir")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

func Port() int {
	return port
}

func ConfigFile() string {
	return configFile
}

func SaveDir() string {
	return saveDir
}

func Compress() bool {
	return compress
}

func ConsoleDebug() bool {
	return conDebug
}

func Public() bool {
	return !noPublic
}

func Dedicated() bool {
	return dedicated.set
}

func DedicatedNum() int {
	return dedicated.num
}

// Commands turns the trailing "+cmd args" arguments into console text,
// one command per line.
func Commands() string {
	return commands(flag.Args())
}

func commands(args []string) string {
	var b strings.Builder
	for _, a := range args {
		if strings.HasPrefix(a, "+") {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(a[1:])
			continue
		}
		if b.Len() == 0 {
			// arguments before the first command are ignored
			continue
		}
		b.WriteString(" ")
		if strings.ContainsAny(a, " \t;") {
			a = strconv.Quote(a)
		}
		b.WriteString(a)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}
