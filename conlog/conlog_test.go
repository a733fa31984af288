// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Printf("SpawnServer: %s\n", "base1")
	DPrintf("dev\n")
	WPrintf("warn\n")
	EPrintf("err %d\n", 3)

	all := logs.AllUntimed()
	if len(all) != 4 {
		t.Fatalf("got %d entries, want 4", len(all))
	}
	want := []struct {
		lvl zapcore.Level
		msg string
	}{
		{zapcore.InfoLevel, "SpawnServer: base1"},
		{zapcore.DebugLevel, "dev"},
		{zapcore.WarnLevel, "warn"},
		{zapcore.ErrorLevel, "err 3"},
	}
	for i, w := range want {
		if all[i].Level != w.lvl || all[i].Message != w.msg {
			t.Errorf("entry %d = %v %q, want %v %q", i, all[i].Level, all[i].Message, w.lvl, w.msg)
		}
	}
}
