// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"testing"

	"goquake2/cmd"
)

func TestWait(t *testing.T) {
	c := CommandBuffer{}
	runCount := 0
	c.SetCommandExecutors([]Efunc{
		func(cb *CommandBuffer, a cmd.Arguments) (bool, error) {
			runCount++
			return true, nil
		}})
	c.AddText("wait\n")
	c.AddText("test\n")
	c.AddText("test\n")
	c.AddText("wait\n")
	c.AddText("test\n")
	c.Execute()
	if runCount != 0 {
		t.Errorf("runCount=%v, want %v", runCount, 0)
	}
	c.Execute()
	if runCount != 2 {
		t.Errorf("runCount=%v, want %v", runCount, 2)
	}
	c.Execute()
	if runCount != 3 {
		t.Errorf("runCount=%v, want %v", runCount, 3)
	}
}

func TestSplitAndQuotes(t *testing.T) {
	c := CommandBuffer{}
	var got []string
	c.SetCommandExecutors([]Efunc{
		func(cb *CommandBuffer, a cmd.Arguments) (bool, error) {
			got = append(got, a.Full())
			return true, nil
		}})
	c.AddText(`set nextserver "gamemap base2;x"; map q2dm1` + "\n")
	c.InsertText("status")
	c.Execute()
	want := []string{"status", `set nextserver "gamemap base2;x"`, "map q2dm1"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if c.Pending() {
		t.Errorf("buffer not drained")
	}
}
