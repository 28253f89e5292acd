// Package realtime broadcasts construction progress over WebSocket using
// register/unregister channels, a mutex-guarded subscriber map, and a
// broadcast-to-X method. Subscribers are grouped by job id, and the
// messages that flow are a job's progress, done and failed updates.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType tags a Message's payload shape.
type MessageType string

const (
	MsgProgress MessageType = "progress"
	MsgDone     MessageType = "done"
	MsgFailed   MessageType = "failed"
)

// Message is the envelope every WebSocket frame carries.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ProgressPayload reports a construction job's progress. internal/api sends
// one when a job's search starts, with only Level filled in.
type ProgressPayload struct {
	Iteration      int   `json:"iteration"`
	Level          int   `json:"level"`
	BestEfficiency int32 `json:"bestEfficiency"`
}

// DonePayload reports a finished construction job.
type DonePayload struct {
	Efficiency int32 `json:"efficiency"`
	Placements int   `json:"placements"`
}

// FailedPayload reports a job that errored out before completion.
type FailedPayload struct {
	Error string `json:"error"`
}

// Client is one WebSocket connection subscribed to a single job's progress.
type Client struct {
	JobID string
	Send  chan []byte

	hub  *Hub
	conn *websocket.Conn
}

// Hub fans construction-progress messages out to every client subscribed
// to the job they concern.
type Hub struct {
	subscribers map[string]map[*Client]bool // jobID -> clients
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			if h.subscribers[client.JobID] == nil {
				h.subscribers[client.JobID] = make(map[*Client]bool)
			}
			h.subscribers[client.JobID][client] = true
			h.mutex.Unlock()
			log.Printf("client subscribed to job %s", client.JobID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.subscribers[client.JobID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.subscribers, client.JobID)
					}
				}
			}
			h.mutex.Unlock()
			log.Printf("client unsubscribed from job %s", client.JobID)
		}
	}
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// BroadcastToJob sends a typed message to every client subscribed to jobID.
func (h *Hub) BroadcastToJob(jobID string, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: marshal payload: %v", err)
		return
	}
	msg, err := json.Marshal(Message{Type: msgType, Payload: data})
	if err != nil {
		log.Printf("realtime: marshal message: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for client := range h.subscribers[jobID] {
		select {
		case client.Send <- msg:
		default:
			close(client.Send)
			delete(h.subscribers[jobID], client)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ServeWs upgrades r to a WebSocket connection and subscribes it to jobID's
// progress messages until the connection closes.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, jobID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{JobID: jobID, Send: make(chan []byte, 32), hub: hub, conn: conn}
	hub.Register(client)

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump drains and discards client frames, just to notice a closed
// connection; subscribers to progress updates have nothing to send us.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
