package botapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = time.Second
	subscriberSize = 64
)

var _ i.EventPublisher = &Hub{}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans tick events out to websocket subscribers. Slow subscribers lose events
// instead of stalling the player.
type Hub struct {
	upgrader    websocket.Upgrader
	logger      i.Logger
	subscribers map[*subscriber]struct{}
	sync.Mutex
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(l i.Logger) *Hub {
	if l == nil {
		l = logger.Discard()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:      l,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish queues event for every subscriber.
func (h *Hub) Publish(event dmn.TickEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(fmt.Sprintf("marshalling tick event: %v", err))
		return
	}

	h.Lock()
	defer h.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			h.logger.Debug(fmt.Sprintf("dropping event for slow subscriber %s", sub.conn.RemoteAddr()))
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.Lock()
	defer h.Unlock()
	return len(h.subscribers)
}

// Serve upgrades the request and streams events until the subscriber disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning(fmt.Sprintf("upgrade failed for %s: %v", r.RemoteAddr, err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, subscriberSize)}
	h.Lock()
	h.subscribers[sub] = struct{}{}
	h.Unlock()
	h.logger.Info(fmt.Sprintf("live subscriber %s connected", conn.RemoteAddr()))

	go h.write(sub)

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
}

func (h *Hub) write(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		if err := sub.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug(fmt.Sprintf("write to %s failed: %v", sub.conn.RemoteAddr(), err))
			return
		}
	}
	_ = sub.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

func (h *Hub) remove(sub *subscriber) {
	h.Lock()
	defer h.Unlock()
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.send)
	h.logger.Info(fmt.Sprintf("live subscriber %s disconnected", sub.conn.RemoteAddr()))
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.Lock()
	defer h.Unlock()
	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}
