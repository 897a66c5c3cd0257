// Package status fans short progress messages out to websocket clients.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

type Status struct {
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
	Type     int       `json:"type"`
	Progress float32   `json:"progress"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
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

// readPump discards client input and notices when the peer goes away.
func (c *client) readPump() {
	defer func() {
		if unregisterClient(c) {
			close(c.send)
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NewClient starts streaming status messages to conn, beginning with the
// last message sent.
func NewClient(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	go c.readPump()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the request and registers the connection as a client.
func Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}
	NewClient(conn)
}

var statusBroadcast chan *Status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
}

func unregisterClient(c *client) bool {
	globalLock.Lock()
	defer globalLock.Unlock()
	if !broadcastList[c] {
		return false
	}
	delete(broadcastList, c)
	return true
}

func init() {
	statusBroadcast = make(chan *Status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				panic(err)
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					log.Printf("[status] client is too slow, dropping message")
				}
			}
			globalLock.Unlock()
		}
	}()
}

func Send(msg string, _type int, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	statusBroadcast <- &Status{
		Message:  msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress}
}

func Info(format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(progress float32, format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), PROGRESS, progress)
}
