// SPDX-License-Identifier: GPL-2.0-or-later

package server

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"goquake2/conlog"
	"goquake2/crc"
	"goquake2/protocol"
)

func TestSessionResetIdempotent(t *testing.T) {
	c := &Session{
		State:         SessionSpawned,
		FrameNumber:   812,
		LastFrame:     810,
		FramesNoDelta: 3,
		SendDelta:     1,
		SuppressCount: 7,
		LastCmd:       UserCmd{Msec: 16, Forward: 400},
	}
	counters := func() [7]int {
		return [7]int{int(c.State), c.FrameNumber, c.LastFrame, c.FramesNoDelta, c.SendDelta, c.SuppressCount, int(c.LastCmd.Msec)}
	}
	want := [7]int{int(SessionConnected), 1, -1, 0, 0, 0, 0}
	for i := 0; i < 2; i++ {
		c.Reset()
		if got := counters(); got != want || c.LastCmd != (UserCmd{}) {
			t.Errorf("reset %d: got %v", i+1, got)
		}
	}

	a := &Session{State: SessionAssigned, FrameNumber: 5}
	a.Reset()
	if a.State != SessionAssigned || a.FrameNumber != 5 {
		t.Errorf("session below connected was reset: %+v", *a)
	}
}

func TestSetConfigString(t *testing.T) {
	var l Level
	ok := strings.Repeat("m", protocol.MaxQPath-1)
	if err := l.SetConfigString(protocol.CsName, ok); err != nil {
		t.Errorf("%d bytes rejected: %v", len(ok), err)
	}
	if err := l.SetConfigString(protocol.CsName, ok+"m"); !errors.Is(err, ErrConfigOverflow) {
		t.Errorf("overflow: %v", err)
	}
	if l.ConfigString(protocol.CsName) != ok {
		t.Errorf("slot changed by a rejected value")
	}
	bar := strings.Repeat("b", protocol.MaxQPath*10)
	if err := l.SetConfigString(protocol.CsStatusBar, bar); err != nil {
		t.Errorf("status bar: %v", err)
	}
	if err := l.SetConfigString(protocol.CsAirAccel-1, bar); !errors.Is(err, ErrConfigOverflow) {
		t.Errorf("last status bar slot: %v", err)
	}
	if err := l.SetConfigString(protocol.MaxConfigStrings, "x"); !errors.Is(err, ErrConfigIndex) {
		t.Errorf("bad index: %v", err)
	}
}

func TestSpawnCountBindsAllSessions(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.reg.Set("coop", "1")
	f.reg.Set("maxclients", "4")
	f.start(t, "base1")
	f.connect(t, 1)
	ss := f.srv.Sessions()
	ss[1].State = SessionAssigned
	ss[2].State = SessionZombie
	old := f.srv.Level().SpawnCount

	if err := f.srv.GameMap("base2"); err != nil {
		t.Fatal(err)
	}
	sc := f.srv.Level().SpawnCount
	if sc < 0 {
		t.Errorf("negative spawn count %d", sc)
	}
	if sc == old {
		t.Errorf("spawn count %d reused", sc)
	}
	for _, c := range ss {
		if c.SpawnCount != sc {
			t.Errorf("session %d (%v) has spawn count %d, want %d", c.Number, c.State, c.SpawnCount, sc)
		}
	}
	if ss[0].State != SessionConnected || ss[1].State != SessionAssigned {
		t.Errorf("states %v %v", ss[0].State, ss[1].State)
	}
}

func TestCheckSumOnlyForGame(t *testing.T) {
	tests := []struct {
		token string
		kind  ServerState
	}{
		{"q2dm1", StateGame},
		{"victory.pcx", StatePicture},
		{"intro.cin", StateCinematic},
	}
	for _, tc := range tests {
		f := newFixture(t, Capabilities{})
		f.start(t, tc.token)
		l := f.srv.Level()
		if l.State != tc.kind {
			t.Errorf("%s: state %v", tc.token, l.State)
		}
		sum := l.ConfigString(protocol.CsMapCheckSum)
		if (sum == "0") != (tc.kind != StateGame) {
			t.Errorf("%s: checksum %q", tc.token, sum)
		}
		if (l.CM() != nil) != (tc.kind == StateGame) {
			t.Errorf("%s: collision model %v", tc.token, l.CM())
		}
	}
}

func TestGameConfigStrings(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.start(t, "q2dm1")
	l := f.srv.Level()
	want := strconv.Itoa(int(crc.Block(f.fs["maps/q2dm1.bsp"])))
	if got := l.ConfigString(protocol.CsMapCheckSum); got != want {
		t.Errorf("checksum %q, want %q", got, want)
	}
	models := []string{"maps/q2dm1.bsp", "*1", "*2", ""}
	for i, m := range models {
		if got := l.ConfigString(protocol.CsModels + 1 + i); got != m {
			t.Errorf("model %d = %q, want %q", i+1, got, m)
		}
	}
	if l.ConfigString(protocol.CsName) != "q2dm1" || l.MapCmd != "q2dm1" {
		t.Errorf("name %q, mapcmd %q", l.ConfigString(protocol.CsName), l.MapCmd)
	}
	if l.ConfigString(protocol.CsMaxClients) != "1" || l.ConfigString(protocol.CsAirAccel) != "0" {
		t.Errorf("maxclients %q, airaccel %q", l.ConfigString(protocol.CsMaxClients), l.ConfigString(protocol.CsAirAccel))
	}
	if f.reg.Info()["mapName"] != "q2dm1" || f.reg.Info()["port"] != "27910" {
		t.Errorf("serverinfo %v", f.reg.Info())
	}
	if f.srv.vars.ServerRunning.Int() != int(StateGame) {
		t.Errorf("sv_running %s", f.srv.vars.ServerRunning.String())
	}
}

func TestAirAccelerateInDeathmatch(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.reg.Set("deathmatch", "1")
	f.reg.Set("sv_airaccelerate", "10")
	f.start(t, "q2dm1")
	if got := f.srv.Level().ConfigString(protocol.CsAirAccel); got != "10" {
		t.Errorf("airaccel %q", got)
	}
}

func padEntities(n int) []byte {
	s := `{ "classname" "worldspawn" "message" "override" }`
	return []byte(s + strings.Repeat(" ", n-len(s)))
}

func TestOverrideEntityString(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		override bool
	}{
		{"exact", padEntities(protocol.MaxMapEntString), true},
		{"small", padEntities(100), true},
		{"one over", padEntities(protocol.MaxMapEntString + 1), false},
		{"missing", nil, false},
	}
	for _, tc := range tests {
		f := newFixture(t, Capabilities{})
		f.reg.Set("map_override_path", "ents/")
		if tc.data != nil {
			f.fs["ents/q2dm1.ent"] = tc.data
		}
		f.start(t, "q2dm1")
		got := f.srv.Level().EntityString()
		if tc.override {
			if got != string(tc.data) {
				t.Errorf("%s: override not used", tc.name)
			}
			if n := f.srv.Level().ConfigString(protocol.CsName); n != "override" {
				t.Errorf("%s: level name %q", tc.name, n)
			}
		} else if got != worldEntities {
			t.Errorf("%s: got %d bytes, want the map entities", tc.name, len(got))
		}
	}
}

func TestOverridePathTooLong(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.reg.Set("map_override_path", strings.Repeat("d/", 30))
	f.start(t, "q2dm1")
	if f.srv.Level().EntityString() != worldEntities {
		t.Errorf("map entities not used")
	}
}

func TestEndToEndDeathmatch(t *testing.T) {
	f := newFixture(t, Capabilities{LocalClient: true})
	f.reg.Set("deathmatch", "1")
	f.reg.Set("maxclients", "8")
	f.start(t, "q2dm1")
	conns := f.connect(t, 3)

	if err := f.srv.GameMap("q2dm1"); err != nil {
		t.Fatal(err)
	}
	f.srv.SendClientMessages()

	for i, c := range f.srv.Sessions()[:3] {
		if c.State != SessionConnected || c.FrameNumber != 1 || c.LastFrame != -1 {
			t.Errorf("session %d: %v frame %d last %d", i, c.State, c.FrameNumber, c.LastFrame)
		}
	}
	for i, c := range conns {
		if len(c.sent) != 2 {
			t.Errorf("client %d got %d packets, want 2", i, len(c.sent))
		}
		recs := decode(t, c.data())
		if len(recs) != 2 {
			t.Fatalf("client %d got %d messages: %+v", i, len(recs), recs)
		}
		if recs[0].op != protocol.SvcStuffText || recs[0].text != "changing map=q2dm1\n" {
			t.Errorf("client %d first message %+v", i, recs[0])
		}
		if recs[1].op != protocol.SvcStuffText || recs[1].text != "reconnect\n" {
			t.Errorf("client %d second message %+v", i, recs[1])
		}
	}
	if f.srv.Level().State != StateGame {
		t.Errorf("state %v", f.srv.Level().State)
	}
	// one plaque for the new game and one per spawn
	if f.local.plaques != 3 || f.local.disconnects != 1 {
		t.Errorf("plaques %d, disconnects %d", f.local.plaques, f.local.disconnects)
	}
	if len(f.masters.resolves) != 2 {
		t.Errorf("masters resolved %d times", len(f.masters.resolves))
	}
}

func TestEndToEndCinematic(t *testing.T) {
	f := newFixture(t, Capabilities{})
	before := f.game.frames
	f.start(t, "intro.cin")
	l := f.srv.Level()
	if f.game.frames-before != 2 || l.FrameNum != 2 {
		t.Errorf("ran %d settle frames, level frame %d", f.game.frames-before, l.FrameNum)
	}
	if l.EntityString() != "" || l.CM() != nil {
		t.Errorf("cinematic has entities or a map")
	}
	if l.ConfigString(protocol.CsMapCheckSum) != "0" || l.State != StateCinematic {
		t.Errorf("checksum %q, state %v", l.ConfigString(protocol.CsMapCheckSum), l.State)
	}
	if got := f.game.spawns[len(f.game.spawns)-1]; got != "intro.cin||0" {
		t.Errorf("spawned with %q", got)
	}
}

func TestSpawnFailureIsFatal(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.game.spawnErr = errors.New("no worldspawn")
	err := f.srv.Map("base1")
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want a FatalError", err)
	}
	if f.srv.Level().State != StateLoading {
		t.Errorf("state %v after failed spawn", f.srv.Level().State)
	}
	if f.srv.Err() != err || f.srv.Frame() != err {
		t.Errorf("fatal error not kept")
	}
}

func TestChangeMapCommandAndLatching(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.reg.Set("sv_changemapcmd", "say changed")
	f.start(t, "base1")
	if !f.cbuf.Pending() {
		t.Errorf("sv_changemapcmd not queued")
	}
	f.reg.Set("maxclients", "8")
	if f.srv.vars.MaxClients.Int() != 1 {
		t.Errorf("maxclients changed while running")
	}
	if v, ok := f.srv.vars.MaxClients.Latched(); !ok || v != "8" {
		t.Errorf("maxclients not latched")
	}
	f.reg.Set("deathmatch", "1")
	f.start(t, "q2dm1")
	if f.srv.vars.MaxClients.Int() != 8 {
		t.Errorf("latched maxclients not applied, got %d", f.srv.vars.MaxClients.Int())
	}
}

func TestSavedLevels(t *testing.T) {
	f := newFixture(t, Capabilities{})
	saves := memLevels{}
	f.srv.saves = saves

	f.start(t, "base1")
	if err := f.srv.GameMap("base2"); err != nil {
		t.Fatal(err)
	}
	if !saves.Exists("base1") {
		t.Fatalf("base1 not saved when leaving it")
	}
	before := f.game.frames
	if err := f.srv.GameMap("base1"); err != nil {
		t.Fatal(err)
	}
	if got := f.game.frames - before; got != 2+reloadFrames {
		t.Errorf("ran %d frames returning to base1", got)
	}
	if f.srv.Level().FrameNum != 2+reloadFrames {
		t.Errorf("level frame %d", f.srv.Level().FrameNum)
	}

	if err := f.srv.GameMap("*base2"); err != nil {
		t.Fatal(err)
	}
	if len(saves) != 0 {
		t.Errorf("end of unit kept %d levels", len(saves))
	}

	f.reg.Set("sv_noreload", "1")
	f.srv.GameMap("base1")
	before = f.game.frames
	f.srv.GameMap("base2")
	if got := f.game.frames - before; got != 2 {
		t.Errorf("sv_noreload still restored, %d frames", got)
	}
}

func TestLoadGame(t *testing.T) {
	f := newFixture(t, Capabilities{})
	saves := memLevels{}
	f.srv.saves = saves
	f.start(t, "base1")
	f.srv.GameMap("base2")

	c, err := f.srv.ParseMapCommand("base1")
	if err != nil {
		t.Fatal(err)
	}
	c.LoadGame = true
	before := f.game.frames
	if err := f.srv.SpawnServer(c); err != nil {
		t.Fatal(err)
	}
	if got := f.game.frames - before; got != 4 {
		t.Errorf("loadgame ran %d frames", got)
	}
}

func TestDedicatedCoopWarning(t *testing.T) {
	old := conlog.Logger().Desugar()
	core, logs := observer.New(zap.WarnLevel)
	conlog.SetLogger(zap.New(core))
	defer conlog.SetLogger(old)

	f := newFixture(t, Capabilities{Dedicated: true})
	f.srv.vars.Dedicated.ForceSet("1")
	f.reg.Set("coop", "1")
	f.start(t, "base1")
	f.srv.GameMap("base2")
	n := 0
	for _, e := range logs.All() {
		if strings.Contains(e.Message, "Dedicated coop servers") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("warning printed %d times", n)
	}
}

func TestConfigStringOverflowIsFatal(t *testing.T) {
	f := newFixture(t, Capabilities{})
	f.start(t, "base1")
	spawns := len(f.game.spawns)

	name := strings.Repeat("c", protocol.MaxQPath) + ".cin"
	err := f.srv.SpawnServer(&MapCommand{Buffer: name, Server: name, Kind: StateCinematic})
	var fe *FatalError
	if !errors.As(err, &fe) || !errors.Is(err, ErrConfigOverflow) {
		t.Fatalf("got %v, want a FatalError for the name", err)
	}
	if len(f.game.spawns) != spawns {
		t.Errorf("entities spawned after a bad configstring")
	}
	if f.srv.Frame() != err {
		t.Errorf("fatal error not kept")
	}
}
