// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"testing"

	"goquake2/cmd"
)

func TestLatch(t *testing.T) {
	r := NewRegistry()
	mc := r.MustRegister("maxclients", "8", SERVERINFO|LATCH)

	mc.SetByString("4")
	if mc.Int() != 4 {
		t.Fatalf("without latching the value should apply, got %v", mc.Int())
	}

	r.SetLatching(true)
	mc.SetByString("16")
	if mc.Int() != 4 {
		t.Errorf("latched change applied early, got %v", mc.Int())
	}
	if v, ok := mc.Latched(); !ok || v != "16" {
		t.Errorf("Latched() = %q, %v", v, ok)
	}
	r.GetLatchedVars()
	if mc.Int() != 16 {
		t.Errorf("after GetLatchedVars got %v, want 16", mc.Int())
	}
	if _, ok := mc.Latched(); ok {
		t.Errorf("latched value not cleared")
	}
}

func TestForceSetBypassesProtection(t *testing.T) {
	r := NewRegistry()
	cv := r.MustRegister("sv_running", "0", ROM)
	cv.SetByString("1")
	if cv.Int() != 0 {
		t.Errorf("ROM cvar changed by SetByString")
	}
	cv.SetInt(2)
	if cv.Int() != 2 {
		t.Errorf("SetInt = %v", cv.Int())
	}
}

func TestClampInt(t *testing.T) {
	r := NewRegistry()
	cv := r.MustRegister("sv_reserved_slots", "9", NONE)
	cv.ClampInt(0, 3)
	if cv.Int() != 3 {
		t.Errorf("ClampInt high = %v", cv.Int())
	}
	cv.ForceSet("-2")
	cv.ClampInt(0, 3)
	if cv.Int() != 0 {
		t.Errorf("ClampInt low = %v", cv.Int())
	}
}

func TestRegisterAdoptsUserCvar(t *testing.T) {
	r := NewRegistry()
	r.Set("deathmatch", "1")
	cv, err := r.Register("deathmatch", "0", LATCH)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Int() != 1 {
		t.Errorf("user value lost, got %v", cv.Int())
	}
	if _, err := r.Register("deathmatch", "0", LATCH); err == nil {
		t.Errorf("second Register did not fail")
	}
}

func TestServerInfo(t *testing.T) {
	r := NewRegistry()
	r.InfoSet("mapname", "q2dm1")
	r.InfoSet("port", "27910")
	r.MustRegister("hostname", "noname", SERVERINFO)
	r.MustRegister("developer", "0", NONE)
	r.InfoModified()

	want := `\hostname\noname\mapname\q2dm1\port\27910`
	if got := r.ServerInfo(); got != want {
		t.Errorf("ServerInfo() = %q, want %q", got, want)
	}
	r.InfoSet("mapname", "base1")
	if !r.InfoModified() {
		t.Errorf("InfoModified not set")
	}
}

func TestCommands(t *testing.T) {
	r := NewRegistry()
	c := cmd.New()
	if err := r.AddCommands(c); err != nil {
		t.Fatal(err)
	}
	c.Execute(cmd.Parse("set coop 1"))
	if r.Int("coop") != 1 {
		t.Errorf("set did not create coop")
	}
	c.Execute(cmd.Parse("toggle coop"))
	if r.Int("coop") != 0 {
		t.Errorf("toggle did not flip coop")
	}
	if ok, _ := r.Execute(cmd.Parse("coop 5")); !ok || r.Int("coop") != 5 {
		t.Errorf("Execute coop 5 = %v, value %v", ok, r.Int("coop"))
	}
}
