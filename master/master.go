// SPDX-License-Identifier: GPL-2.0-or-later

// Package master keeps the addresses of the master servers a public server
// announces itself to.
package master

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"goquake2/conlog"
	"goquake2/protocol"
)

const (
	// re-resolve valid addresses after one day,
	// invalid ones after three hours
	validTTL   = 24 * time.Hour
	invalidTTL = 3 * time.Hour
)

type Resolver func(name string) (*net.UDPAddr, error)

type Master struct {
	Name         string
	Addr         *net.UDPAddr // nil if the last resolve failed
	LastResolved time.Time
}

// List is the set of configured masters. It is only used from the server
// goroutine, the mutex guards the config reload.
type List struct {
	mu      sync.Mutex
	masters []*Master
	resolve Resolver
	conn    *net.UDPConn
}

func resolveUDP(name string) (*net.UDPAddr, error) {
	if _, _, err := net.SplitHostPort(name); err != nil {
		name = net.JoinHostPort(name, strconv.Itoa(protocol.PortMaster))
	}
	return net.ResolveUDPAddr("udp", name)
}

func New(names []string) *List {
	l := &List{resolve: resolveUDP}
	l.SetNames(names)
	return l
}

// SetResolver replaces the name lookup, nil restores the default.
func (l *List) SetResolver(r Resolver) {
	if r == nil {
		r = resolveUDP
	}
	l.mu.Lock()
	l.resolve = r
	l.mu.Unlock()
}

// SetNames replaces the master list. Masters already known keep their
// cached address.
func (l *List) SetNames(names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := make(map[string]*Master, len(l.masters))
	for _, m := range l.masters {
		old[m.Name] = m
	}
	l.masters = l.masters[:0:0]
	for _, n := range names {
		if m, ok := old[n]; ok {
			l.masters = append(l.masters, m)
			continue
		}
		l.masters = append(l.masters, &Master{Name: n})
	}
}

// Masters returns a copy of the current state.
func (l *List) Masters() []Master {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := make([]Master, 0, len(l.masters))
	for _, m := range l.masters {
		r = append(r, *m)
	}
	return r
}

// Resolve looks up every master whose cached address expired. Failures are
// only logged.
func (l *List) Resolve(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.masters {
		ttl := invalidTTL
		if m.Addr != nil {
			ttl = validTTL
		}
		if now.Before(m.LastResolved) {
			// clock went backwards
			m.LastResolved = now
			continue
		}
		if !m.LastResolved.IsZero() && now.Sub(m.LastResolved) < ttl {
			continue
		}
		a, err := l.resolve(m.Name)
		if err != nil {
			conlog.WPrintf("Couldn't resolve master: %s\n", m.Name)
			m.Addr = nil
		} else {
			conlog.DPrintf("Master server at %s.\n", a)
			m.Addr = a
		}
		m.LastResolved = now
	}
}

var heartbeatHeader = []byte("\xff\xff\xff\xffheartbeat\n")

// Heartbeat sends the status payload to every resolved master.
func (l *List) Heartbeat(payload []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		c, err := net.ListenUDP("udp", nil)
		if err != nil {
			conlog.WPrintf("heartbeat: %v\n", err)
			return
		}
		l.conn = c
	}
	pkt := append(append([]byte{}, heartbeatHeader...), payload...)
	for _, m := range l.masters {
		if m.Addr == nil {
			continue
		}
		conlog.DPrintf("Sending heartbeat to %s\n", m.Addr)
		if _, err := l.conn.WriteToUDP(pkt, m.Addr); err != nil {
			conlog.WPrintf("%v\n", errors.Wrapf(err, "heartbeat to %s", m.Name))
		}
	}
}

func (l *List) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}
