// SPDX-License-Identifier: GPL-2.0-or-later

// Package transport carries client connections over websockets. Reading and
// writing happen on per connection goroutines, everything else is handed to
// the server goroutine as events.
package transport

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"goquake2/conlog"
)

type EventType int

const (
	Connected EventType = iota
	Message
	Disconnected
)

func (t EventType) String() string {
	switch t {
	case Connected:
		return "connected"
	case Message:
		return "message"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// Peer is the server side of a connection.
type Peer interface {
	Send(data []byte) error
	Close()
	RemoteAddr() string
}

type Event struct {
	Type EventType
	Conn Peer
	Data []byte
}

const eventQueue = 256

type Listener struct {
	mu       sync.Mutex
	srv      *http.Server
	ln       net.Listener
	conns    map[*Conn]struct{}
	disabled bool // set by Disable until the next Enable
	events   chan Event
	upgrader websocket.Upgrader

	statusMu sync.RWMutex
	status   map[string]string
}

func New() *Listener {
	return &Listener{
		conns:  make(map[*Conn]struct{}),
		events: make(chan Event, eventQueue),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1400,
			WriteBufferSize: 1400,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (l *Listener) Events() <-chan Event {
	return l.events
}

// Handler serves the websocket endpoint at / and the server status at
// /status.
func (l *Listener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", l.handleStatus)
	mux.HandleFunc("/", l.handleConnect)
	return mux
}

// Enable starts listening on addr. Enabling an enabled listener is a no-op.
func (l *Listener) Enable(addr string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.srv != nil {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	l.ln = ln
	l.srv = &http.Server{Handler: l.Handler()}
	l.disabled = false
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			conlog.EPrintf("transport: %v\n", err)
		}
	}(l.srv)
	conlog.Printf("Listening on %s\n", ln.Addr())
	return nil
}

// Disable stops listening and drops all connections.
func (l *Listener) Disable() error {
	l.mu.Lock()
	srv := l.srv
	conns := l.conns
	l.srv = nil
	l.ln = nil
	l.conns = make(map[*Conn]struct{})
	l.disabled = true
	l.mu.Unlock()
	for c := range conns {
		c.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Close()
}

// Addr is the listening address or nil if disabled.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// PublishStatus replaces the key/values served by /status.
func (l *Listener) PublishStatus(info map[string]string) {
	c := make(map[string]string, len(info))
	for k, v := range info {
		c[k] = v
	}
	l.statusMu.Lock()
	l.status = c
	l.statusMu.Unlock()
}

func (l *Listener) handleStatus(w http.ResponseWriter, r *http.Request) {
	l.statusMu.RLock()
	data, err := json.Marshal(l.status)
	l.statusMu.RUnlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (l *Listener) handleConnect(w http.ResponseWriter, r *http.Request) {
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		conlog.DPrintf("upgrade failed for %s: %v\n", r.RemoteAddr, err)
		return
	}
	c := newConn(ws)
	l.mu.Lock()
	if l.disabled {
		l.mu.Unlock()
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server disabled"))
		ws.Close()
		return
	}
	l.conns[c] = struct{}{}
	l.mu.Unlock()

	l.events <- Event{Type: Connected, Conn: c}
	go c.writeLoop()
	for {
		t, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if t != websocket.BinaryMessage && t != websocket.TextMessage {
			continue
		}
		l.events <- Event{Type: Message, Conn: c, Data: data}
	}
	c.Close()
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
	l.events <- Event{Type: Disconnected, Conn: c}
}
