// SPDX-License-Identifier: GPL-2.0-or-later

package savegame

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStore(t *testing.T) {
	dir := t.TempDir()
	s := New(func() string { return dir })
	if s.Exists("base1") {
		t.Fatalf("level exists in an empty dir")
	}
	l, err := structpb.NewStruct(map[string]interface{}{
		"mapname":  "base1",
		"framenum": 12.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write("base1", l); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("base1") {
		t.Fatalf("written level missing")
	}
	got, err := s.Read("base1")
	if err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(got, l) {
		t.Errorf("got %v, want %v", got, l)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Exists("base1") {
		t.Errorf("level survived Clear")
	}
}

func TestBadNames(t *testing.T) {
	s := New(func() string { return t.TempDir() })
	for _, n := range []string{"", "../x", "a/b", `a\b`} {
		if s.Exists(n) {
			t.Errorf("Exists(%q)", n)
		}
		if err := s.Write(n, &structpb.Struct{}); err == nil {
			t.Errorf("Write(%q) accepted", n)
		}
	}
}
