// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"math"
	"strconv"

	"goquake2/conlog"
)

type flag uint64

const (
	// cvar flags bitfield
	NONE       flag = 0
	ARCHIVE    flag = 1
	USERINFO   flag = 1 << 1
	SERVERINFO flag = 1 << 2
	NOSET      flag = 1 << 3 // can only be set from the command line
	LATCH      flag = 1 << 4 // changes take effect at the next game init
	ROM        flag = 1 << 6
	USER       flag = 1 << 17 // created by the user with set
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	reg      *Registry
	flags    flag
	callback CallbackFunc
	name     string
	// stringValue is the truth, value and integer the derived ones
	stringValue  string
	value        float32
	integer      int
	defaultValue string
	latched      *string
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Flags() flag {
	return cv.flags
}

func (cv *Cvar) Archive() bool {
	return cv.flags&ARCHIVE != 0
}

func (cv *Cvar) ServerInfo() bool {
	return cv.flags&SERVERINFO != 0
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

// SetByString is the path taken by console and config changes. ROM cvars
// refuse it and LATCH cvars only record the value while the registry is
// latching.
func (cv *Cvar) SetByString(s string) {
	if cv.flags&(ROM|NOSET) != 0 {
		conlog.Printf("%s is write protected.\n", cv.name)
		return
	}
	if cv.flags&LATCH != 0 && cv.reg != nil && cv.reg.latching {
		if s == cv.stringValue {
			cv.latched = nil
			return
		}
		if cv.latched != nil && *cv.latched == s {
			return
		}
		v := s
		cv.latched = &v
		conlog.Printf("%s will be changed for next game.\n", cv.name)
		return
	}
	cv.set(s)
}

// ForceSet changes the value bypassing protection and latching. It is meant
// for the server itself.
func (cv *Cvar) ForceSet(s string) {
	cv.latched = nil
	cv.set(s)
}

func (cv *Cvar) set(s string) {
	changed := s != cv.stringValue
	cv.stringValue = s
	pf, err := strconv.ParseFloat(s, 32)
	if err != nil {
		pf = 0
	}
	cv.value = float32(pf)
	if i, err := strconv.Atoi(s); err == nil {
		cv.integer = i
	} else {
		cv.integer = int(math.Trunc(pf))
	}
	if changed && cv.flags&SERVERINFO != 0 && cv.reg != nil {
		cv.reg.infoModified = true
	}
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) SetInt(i int) {
	cv.ForceSet(strconv.Itoa(i))
}

// ClampInt forces the value into [min, max].
func (cv *Cvar) ClampInt(min, max int) {
	if cv.integer < min {
		cv.SetInt(min)
	} else if cv.integer > max {
		cv.SetInt(max)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) Int() int {
	return cv.integer
}

func (cv *Cvar) Bool() bool {
	return cv.integer != 0
}

func (cv *Cvar) Default() string {
	return cv.defaultValue
}

// Latched returns a pending value waiting for the next game init.
func (cv *Cvar) Latched() (string, bool) {
	if cv.latched == nil {
		return "", false
	}
	return *cv.latched, true
}
