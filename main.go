// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"goquake2/alias"
	"goquake2/bsp"
	"goquake2/cbuf"
	"goquake2/cmd"
	"goquake2/commandline"
	"goquake2/config"
	"goquake2/conlog"
	"goquake2/cvar"
	"goquake2/cvars"
	"goquake2/filesystem"
	"goquake2/game"
	"goquake2/master"
	"goquake2/savegame"
	"goquake2/server"
	"goquake2/transport"
)

const frameTime = 100 * time.Millisecond

func main() {
	flag.Parse()
	setupLogger()
	err := run()
	if err != nil {
		conlog.EPrintf("%v\n", err)
	}
	conlog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !commandline.ConsoleDebug() {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return
	}
	conlog.SetLogger(l)
}

func readConsole(lines chan<- string) {
	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		lines <- s.Text()
	}
	close(lines)
}

func run() error {
	reg := cvar.NewRegistry()
	vars := cvars.Register(reg, commandline.Dedicated())
	reg.MustRegister("game", commandline.Game(), cvar.SERVERINFO|cvar.LATCH)
	vars.NetPort.SetInt(commandline.Port())
	if commandline.Dedicated() {
		vars.MaxClients.SetInt(commandline.DedicatedNum())
		if commandline.Public() {
			vars.Public.SetInt(1)
		}
	}
	if d := commandline.SaveDir(); d != "" {
		vars.ServerSaveDir.ForceSet(d)
	}

	fs := filesystem.New()
	fs.UseBaseDir(commandline.BaseDirectory(), commandline.Game())
	conlog.DPrintf("search path %v\n", fs.Path())

	cf := &config.File{}
	if p := commandline.ConfigFile(); p != "" {
		f, err := config.Load(p)
		if err != nil {
			return err
		}
		cf = f
	}

	masters := master.New(cf.Masters)
	defer masters.Close()

	listener := transport.New()
	saves := savegame.New(func() string {
		return filepath.Join(fs.GameDir(), vars.ServerSaveDir.String())
	})

	commands := cmd.New()
	buf := &cbuf.CommandBuffer{}
	srv := server.New(server.Config{
		Capabilities: server.Capabilities{
			Dedicated:   commandline.Dedicated(),
			Compression: commandline.Compress(),
		},
		Cvars:     reg,
		Vars:      vars,
		Files:     fs,
		Maps:      bsp.NewLoader(fs),
		Game:      game.New(reg),
		Transport: listener,
		Masters:   masters,
		Saves:     saves,
		Commands:  buf,
	})

	quit := false
	cmd.Must(srv.AddCommands(commands))
	cmd.Must(reg.AddCommands(commands))
	aliases := alias.New()
	cmd.Must(aliases.Register(commands))
	cmd.Must(commands.Add("quit", func(_ cmd.Arguments) error {
		quit = true
		return nil
	}))
	buf.SetCommandExecutors([]cbuf.Efunc{
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return commands.Execute(a)
		},
		aliases.Execute,
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return reg.Execute(a)
		},
	})

	buf.AddText(cf.Commands())
	buf.AddText(commandline.Commands())

	var reloads <-chan *config.File
	var watchErrors <-chan error
	if p := commandline.ConfigFile(); p != "" {
		w, err := config.Watch(p)
		if err != nil {
			conlog.WPrintf("Not watching %s: %v\n", p, err)
		} else {
			defer w.Close()
			reloads, watchErrors = w.Reloads, w.Errors
		}
	}

	console := make(chan string, 16)
	go readConsole(console)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	conlog.Printf("goquake2 server, port %s\n", strconv.Itoa(vars.NetPort.Int()))
	for !quit {
		select {
		case <-ticker.C:
			buf.Execute()
			if err := srv.Frame(); err != nil {
				return err
			}
		case line, ok := <-console:
			if !ok {
				console = nil
				continue
			}
			buf.AddText(line + "\n")
		case f := <-reloads:
			conlog.Printf("Reloading %s\n", commandline.ConfigFile())
			buf.AddText(config.Diff(cf, f))
			masters.SetNames(f.Masters)
			cf = f
		case err := <-watchErrors:
			conlog.WPrintf("config: %v\n", err)
		case s := <-signals:
			conlog.Printf("Got %v\n", s)
			quit = true
		}
	}
	srv.Shutdown("Server quit\n", false)
	return nil
}
