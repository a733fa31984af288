// SPDX-License-Identifier: GPL-2.0-or-later

package alias

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"goquake2/cbuf"
	"goquake2/cmd"
	"goquake2/conlog"
)

func setup(t *testing.T, extra ...cbuf.Efunc) (*Aliases, *cbuf.CommandBuffer) {
	t.Helper()
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	cb := &cbuf.CommandBuffer{}
	cb.SetCommandExecutors(append([]cbuf.Efunc{
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cmds.Execute(a) // execute 'alias'
		},
		al.Execute, // execute 'hello'
	}, extra...))
	return al, cb
}

func TestExecuteAlias(t *testing.T) {
	worldCount := 0
	p := func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
		if a.Full() != "world" {
			t.Errorf("got %q, want %q", a.Full(), "world")
		} else {
			worldCount++
		}
		return true, nil
	}
	_, cb := setup(t, p)

	cb.AddText("alias hello world\n")
	cb.Execute()
	cb.AddText("hello\n")
	cb.AddText("world\n")
	cb.Execute()
	if worldCount != 2 {
		// for 'hello' -> 'world' and 'world'
		t.Errorf("Executed 'world' %d times, want %d", worldCount, 2)
	}
}

func TestUnalias(t *testing.T) {
	al, cb := setup(t)
	cb.AddText("alias a one\nalias b two\nunalias a\n")
	cb.Execute()
	if _, ok := al.Get("a"); ok {
		t.Errorf("a still defined")
	}
	if v, ok := al.Get("b"); !ok || v != "two\n" {
		t.Errorf("b = %q", v)
	}
	cb.AddText("unaliasall\n")
	cb.Execute()
	if _, ok := al.Get("b"); ok {
		t.Errorf("b still defined")
	}
}

func TestPrintAlias(t *testing.T) {
	old := conlog.Logger().Desugar()
	core, logs := observer.New(zap.InfoLevel)
	conlog.SetLogger(zap.New(core))
	defer conlog.SetLogger(old)

	_, cb := setup(t)
	cb.AddText("alias hello world\nalias\nalias hello\n")
	cb.Execute()

	var got []string
	for _, e := range logs.All() {
		got = append(got, e.Message)
	}
	want := []string{"  hello: world", "1 alias command(s)", "  hello: world"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
