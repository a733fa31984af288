// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestPak(t *testing.T) {
	files := map[string]string{
		"maps/base1.ent": "{\n\"classname\" \"worldspawn\"\n}\n",
		"pics/end.pcx":   "not really a pcx",
	}
	b := Build(files, []string{"maps/base1.ent", "pics/end.pcx"})
	pakFile := filepath.Join(t.TempDir(), "pak0.pak")
	if err := os.WriteFile(pakFile, b, 0644); err != nil {
		t.Fatal(err)
	}
	p, err := NewPackReader(pakFile)
	if err != nil {
		t.Fatalf("could not open %s: %v", pakFile, err)
	}
	defer p.Close()
	if p.String() != pakFile {
		t.Errorf("pack String error: want %v got %v", pakFile, p.String())
	}
	for n, want := range files {
		f, err := p.Open(n)
		if err != nil {
			t.Fatalf("Open(%q): %v", n, err)
		}
		got, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("Could not read %s: %v", n, err)
		}
		if string(got) != want {
			t.Errorf("%s contents is %q", n, got)
		}
	}
	if _, err := p.Open("maps/base2.bsp"); err != os.ErrNotExist {
		t.Errorf("Open of missing entry = %v", err)
	}
	if sz, ok := p.Size("pics/end.pcx"); !ok || sz != 16 {
		t.Errorf("Size = %v, %v", sz, ok)
	}
}

func TestNotAPak(t *testing.T) {
	b := []byte("IBSP\x26\x00\x00\x00\x00\x00\x00\x00")
	if _, err := NewReader(bytes.NewReader(b), int64(len(b)), "x"); err == nil {
		t.Errorf("expected error for non pak data")
	}
}

func TestDuplicateEntries(t *testing.T) {
	b := Build(map[string]string{"a": "1"}, []string{"a", "a"})
	if _, err := NewReader(bytes.NewReader(b), int64(len(b)), "dup"); err == nil {
		t.Errorf("expected error for duplicate entries")
	}
}
