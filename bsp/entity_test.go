// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParseEntities(t *testing.T) {
	data := `{
"classname" "worldspawn"
"message" "The Edge"
}
// comment
{
"classname" "info_player_start"
"origin" "0 0 24"
"angle" "90"
"angle" "180"
}
`
	es, err := ParseEntities(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(es) != 2 {
		t.Fatalf("got %d entities, want 2", len(es))
	}
	if n, _ := es[0].Name(); n != "worldspawn" {
		t.Errorf("first entity %q", n)
	}
	if m, _ := es[0].Property("message"); m != "The Edge" {
		t.Errorf("message %q", m)
	}
	if a, _ := es[1].Property("angle"); a != "180" {
		t.Errorf("angle %q, want last value", a)
	}
	if got := len(es[1].PropertyNames()); got != 4 {
		t.Errorf("got %d keys, want 4", got)
	}
	if _, ok := es[1].Property("target"); ok {
		t.Errorf("unexpected target")
	}
}

func TestParseEntitiesErrors(t *testing.T) {
	tests := []string{
		`{ "classname" "worldspawn"`,
		`"classname" "worldspawn" }`,
		`{ "classname" }`,
	}
	for _, d := range tests {
		if _, err := ParseEntities(d); !errors.Is(err, ErrEntitySyntax) {
			t.Errorf("ParseEntities(%q) = %v", d, err)
		}
	}
}

func TestParseEntitiesEmpty(t *testing.T) {
	es, err := ParseEntities("  \n")
	if err != nil || len(es) != 0 {
		t.Errorf("got %v, %v", es, err)
	}
}
