// Package status broadcasts conversion progress to websocket clients and
// local listeners. The last message is replayed to every new client.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Kind int

const (
	INFO Kind = iota
	ERROR
	PROGRESS
)

func (k Kind) String() string {
	switch k {
	case INFO:
		return "info"
	case ERROR:
		return "error"
	case PROGRESS:
		return "progress"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Message struct {
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
	Type     Kind      `json:"type"`
	Progress float64   `json:"progress"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregister(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames so pings are answered and a closed
// connection is noticed.
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NewClient starts streaming status messages to conn until it is closed.
func NewClient(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 32)}

	globalLock.Lock()
	clients[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()

	go c.writePump()
	go c.readPump()
}

var (
	globalLock  sync.Mutex
	clients     = make(map[*client]bool)
	listeners   = make(map[chan Message]bool)
	lastMessage []byte
	last        *Message
)

func unregister(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(clients, c)
}

// Listen returns a channel receiving every following message and a
// function to stop listening. Messages are dropped while the channel is
// full.
func Listen(buffer int) (<-chan Message, func()) {
	ch := make(chan Message, buffer)
	globalLock.Lock()
	listeners[ch] = true
	globalLock.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			globalLock.Lock()
			delete(listeners, ch)
			globalLock.Unlock()
			close(ch)
		})
	}
}

// Last returns the most recent message, if any.
func Last() (Message, bool) {
	globalLock.Lock()
	defer globalLock.Unlock()
	if last == nil {
		return Message{}, false
	}
	return *last, true
}

func broadcast(m *Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("[status] Failed to marshal status: %v", err)
		return
	}

	globalLock.Lock()
	defer globalLock.Unlock()
	lastMessage = data
	last = m
	for c := range clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[status] Client %v is too slow, dropping", c.conn.RemoteAddr())
			delete(clients, c)
			close(c.send)
		}
	}
	for ch := range listeners {
		select {
		case ch <- *m:
		default:
		}
	}
}

func Status(msg string, kind Kind, progress float64) {
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		progress = 0
	}
	broadcast(&Message{
		Message:  msg,
		Time:     time.Now(),
		Type:     kind,
		Progress: progress})
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(progress float64, format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}
