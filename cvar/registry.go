// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"goquake2/cmd"
	"goquake2/conlog"
)

const maxInfoString = 512

type Registry struct {
	cvars    []*Cvar
	byName   map[string]*Cvar
	latching bool
	// set whenever a SERVERINFO value changed
	infoModified bool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Cvar)}
}

func (r *Registry) All() []*Cvar {
	return r.cvars
}

func (r *Registry) Get(name string) (*Cvar, bool) {
	cv, ok := r.byName[name]
	return cv, ok
}

// Int returns the integer value of name or 0 if it does not exist.
func (r *Registry) Int(name string) int {
	if cv, ok := r.byName[name]; ok {
		return cv.Int()
	}
	return 0
}

// String returns the value of name or "" if it does not exist.
func (r *Registry) String(name string) string {
	if cv, ok := r.byName[name]; ok {
		return cv.String()
	}
	return ""
}

func (r *Registry) create(name, value string, flags flag) *Cvar {
	cv := &Cvar{reg: r, name: name, defaultValue: value, flags: flags}
	cv.set(value)
	r.cvars = append(r.cvars, cv)
	r.byName[name] = cv
	return cv
}

// Register creates a new cvar. A cvar previously created by the user with
// set is adopted, its value kept and its flags replaced.
func (r *Registry) Register(name, value string, flags flag) (*Cvar, error) {
	if cv, ok := r.byName[name]; ok {
		if cv.flags&USER == 0 {
			return nil, errors.Errorf("Can't register variable %s, already defined", name)
		}
		cv.flags = flags
		cv.defaultValue = value
		return cv, nil
	}
	return r.create(name, value, flags), nil
}

func (r *Registry) MustRegister(n, v string, f flag) *Cvar {
	cv, err := r.Register(n, v, f)
	if err != nil {
		panic(err.Error())
	}
	return cv
}

// Set changes or creates a cvar the same way the console "set" does.
func (r *Registry) Set(name, value string) *Cvar {
	if cv, ok := r.byName[name]; ok {
		cv.SetByString(value)
		return cv
	}
	return r.create(name, value, USER)
}

// FullSet changes value and flags at once, bypassing latching.
func (r *Registry) FullSet(name, value string, flags flag) *Cvar {
	cv, ok := r.byName[name]
	if !ok {
		return r.create(name, value, flags)
	}
	if cv.flags&SERVERINFO != flags&SERVERINFO {
		r.infoModified = true
	}
	cv.flags = flags
	cv.ForceSet(value)
	return cv
}

// SetLatching controls whether LATCH cvars defer changes. The server enables
// it while a game is running.
func (r *Registry) SetLatching(b bool) {
	r.latching = b
}

// GetLatchedVars applies all pending latched values.
func (r *Registry) GetLatchedVars() {
	for _, cv := range r.cvars {
		if v, ok := cv.Latched(); ok {
			cv.ForceSet(v)
		}
	}
}

// InfoSet publishes a read only serverinfo key.
func (r *Registry) InfoSet(key, value string) {
	r.FullSet(key, value, SERVERINFO|ROM)
}

// Info returns all serverinfo values.
func (r *Registry) Info() map[string]string {
	m := make(map[string]string)
	for _, cv := range r.cvars {
		if cv.flags&SERVERINFO != 0 {
			m[cv.name] = cv.stringValue
		}
	}
	return m
}

// ServerInfo returns the info string "\key\value..." sorted by key. Entries
// containing reserved characters or exceeding the info size are skipped.
func (r *Registry) ServerInfo() string {
	info := r.Info()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		v := info[k]
		if strings.ContainsAny(k+v, "\\\";") {
			continue
		}
		e := "\\" + k + "\\" + v
		if b.Len()+len(e) >= maxInfoString {
			conlog.WPrintf("Info string length exceeded, dropping %s\n", k)
			continue
		}
		b.WriteString(e)
	}
	return b.String()
}

// InfoModified reports and clears the serverinfo change marker.
func (r *Registry) InfoModified() bool {
	m := r.infoModified
	r.infoModified = false
	return m
}

// Execute handles "<cvar>" and "<cvar> <value>" console lines.
func (r *Registry) Execute(a cmd.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	cv, ok := r.Get(args[0].String())
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true, nil
	}
	cv.SetByString(args[1].String())
	return true, nil
}
