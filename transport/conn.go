// SPDX-License-Identifier: GPL-2.0-or-later

package transport

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	sendQueue    = 64
	writeTimeout = 5 * time.Second
)

var ErrClosed = errors.New("connection closed")

// Conn is one client connection. Send never blocks, a client that does not
// keep up gets dropped.
type Conn struct {
	ws   *websocket.Conn
	out  chan []byte
	once sync.Once
	done chan struct{}
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		out:  make(chan []byte, sendQueue),
		done: make(chan struct{}),
	}
}

func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

func (c *Conn) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	b := append([]byte{}, data...)
	select {
	case c.out <- b:
		return nil
	default:
		c.Close()
		return errors.Wrap(ErrClosed, "send queue full")
	}
}

// Close stops the connection after the queued messages went out.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Conn) write(b []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.BinaryMessage, b)
}

func (c *Conn) writeLoop() {
	defer c.ws.Close()
	for {
		select {
		case <-c.done:
			for {
				select {
				case b := <-c.out:
					if c.write(b) != nil {
						return
					}
				default:
					c.ws.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		case b := <-c.out:
			if err := c.write(b); err != nil {
				c.Close()
				return
			}
		}
	}
}
