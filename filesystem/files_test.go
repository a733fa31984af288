// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goquake2/pack"
)

func setup(t *testing.T) (*FS, string) {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, BaseGame)
	if err := os.MkdirAll(filepath.Join(dir, "maps"), 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "maps", "loose.ent"), []byte("loose"), 0644)
	os.WriteFile(filepath.Join(dir, "maps", "both.ent"), []byte("from dir"), 0644)
	p0 := pack.Build(map[string]string{"maps/both.ent": "from pak0", "pics/a.pcx": "pak0"}, []string{"maps/both.ent", "pics/a.pcx"})
	p1 := pack.Build(map[string]string{"pics/a.pcx": "pak1"}, []string{"pics/a.pcx"})
	os.WriteFile(filepath.Join(dir, "pak0.pak"), p0, 0644)
	os.WriteFile(filepath.Join(dir, "pak1.pak"), p1, 0644)
	fs := New()
	fs.UseBaseDir(base, "")
	return fs, base
}

func TestFilesystemOrder(t *testing.T) {
	fs, _ := setup(t)
	for _, tc := range []struct{ name, want string }{
		{"maps/loose.ent", "loose"},
		{"maps/both.ent", "from pak0"},
		{"pics/a.pcx", "pak1"},
	} {
		b, err := fs.LoadFile(tc.name, 0)
		if err != nil {
			t.Fatalf("LoadFile(%q): %v", tc.name, err)
		}
		if string(b) != tc.want {
			t.Errorf("LoadFile(%q) = %q, want %q", tc.name, b, tc.want)
		}
	}
}

func TestModOverridesBase(t *testing.T) {
	fs, base := setup(t)
	mod := filepath.Join(base, "ctf", "maps")
	os.MkdirAll(mod, 0755)
	os.WriteFile(filepath.Join(mod, "both.ent"), []byte("mod"), 0644)
	fs.UseBaseDir(base, "ctf")
	b, err := fs.LoadFile("maps/both.ent", 0)
	if err != nil || string(b) != "mod" {
		t.Errorf("LoadFile = %q, %v", b, err)
	}
	if fs.GameDir() != filepath.Join(base, "ctf") {
		t.Errorf("GameDir = %v", fs.GameDir())
	}
}

func TestLoadFileErrors(t *testing.T) {
	fs, _ := setup(t)
	if _, err := fs.LoadFile("maps/none.bsp", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := fs.LoadFile("maps/loose.ent", 4); !errors.Is(err, ErrTooLarge) {
		t.Errorf("too large: %v", err)
	}
	if b, err := fs.LoadFile("maps/loose.ent", 5); err != nil || string(b) != "loose" {
		t.Errorf("exact size: %q %v", b, err)
	}
	long := "maps/" + strings.Repeat("x", 64)
	if _, err := fs.LoadFile(long, 0); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("long name: %v", err)
	}
	if _, err := fs.LoadFile("../etc/passwd", 0); !errors.Is(err, ErrBadPath) {
		t.Errorf("bad path: %v", err)
	}
}

func TestExt(t *testing.T) {
	if Ext("pics/end.pcx") != ".pcx" || Ext("maps.d/base1") != "" {
		t.Errorf("Ext broken")
	}
	if StripExt("intro.cin") != "intro" {
		t.Errorf("StripExt broken")
	}
	if !HasExt("INTRO.CIN", ".cin") {
		t.Errorf("HasExt should ignore case")
	}
}
