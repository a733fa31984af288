// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrEntitySyntax = errors.New("bad entity string")

// Entity is one {...} block of an entity string. Key order is kept since
// later keys override earlier ones when spawning.
type Entity struct {
	keys   []string
	values []string
}

func (e *Entity) Property(name string) (string, bool) {
	for i := len(e.keys) - 1; i >= 0; i-- {
		if e.keys[i] == name {
			return e.values[i], true
		}
	}
	return "", false
}

func (e *Entity) Name() (string, bool) {
	return e.Property("classname")
}

func (e *Entity) PropertyNames() []string {
	n := make([]string, len(e.keys))
	copy(n, e.keys)
	return n
}

func (e *Entity) Set(key, value string) {
	e.keys = append(e.keys, key)
	e.values = append(e.values, value)
}

type tokenizer struct {
	data string
	pos  int
}

// next returns the next token. Quoted strings are returned without quotes,
// '{' and '}' are single tokens and // comments are skipped.
func (t *tokenizer) next() (string, bool) {
	for {
		for t.pos < len(t.data) && t.data[t.pos] <= ' ' {
			t.pos++
		}
		if t.pos >= len(t.data) {
			return "", false
		}
		if strings.HasPrefix(t.data[t.pos:], "//") {
			i := strings.IndexByte(t.data[t.pos:], '\n')
			if i < 0 {
				t.pos = len(t.data)
				return "", false
			}
			t.pos += i
			continue
		}
		break
	}
	switch c := t.data[t.pos]; c {
	case '"':
		t.pos++
		i := strings.IndexByte(t.data[t.pos:], '"')
		if i < 0 {
			s := t.data[t.pos:]
			t.pos = len(t.data)
			return s, true
		}
		s := t.data[t.pos : t.pos+i]
		t.pos += i + 1
		return s, true
	case '{', '}':
		t.pos++
		return string(c), true
	}
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] > ' ' && t.data[t.pos] != '"' {
		t.pos++
	}
	return t.data[start:t.pos], true
}

// ParseEntities splits an entity string into its entities.
//
//	{
//	"classname" "worldspawn"
//	"message" "The Edge"
//	}
func ParseEntities(data string) ([]*Entity, error) {
	var es []*Entity
	t := &tokenizer{data: data}
	for {
		tok, ok := t.next()
		if !ok {
			return es, nil
		}
		if tok != "{" {
			return nil, errors.Wrapf(ErrEntitySyntax, "found %q when expecting {", tok)
		}
		e := &Entity{}
		for {
			key, ok := t.next()
			if !ok {
				return nil, errors.Wrap(ErrEntitySyntax, "EOF without closing brace")
			}
			if key == "}" {
				break
			}
			value, ok := t.next()
			if !ok {
				return nil, errors.Wrap(ErrEntitySyntax, "EOF without closing brace")
			}
			if value == "}" || value == "{" {
				return nil, errors.Wrap(ErrEntitySyntax, "closing brace without data")
			}
			e.Set(key, value)
		}
		es = append(es, e)
	}
}
