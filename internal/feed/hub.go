package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"scenecards/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Feed — read-only websocket stream of committed card drawings
// ─────────────────────────────────────────────────────────────
//
// Players connect to /feed?card=<id> and receive the card's drawing every
// time it is committed. Anything a client sends is discarded.

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Message is one frame sent to subscribers.
type Message struct {
	CardID  string                 `json:"cardId"`
	Objects domain.DrawAreaObjects `json:"objects"`
}

type subscriber struct {
	cardID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans committed drawings out to websocket subscribers.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	last   map[string][]byte
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// player views are served from other origins on the LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
		last: make(map[string][]byte),
	}
}

// ServeHTTP upgrades the request and subscribes it to one card.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("card")
	if cardID == "" {
		http.Error(w, "missing card parameter", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[FEED] upgrade: %v", err)
		return
	}

	sub := &subscriber{cardID: cardID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	if snapshot, ok := h.last[cardID]; ok {
		sub.send <- snapshot
	}
	h.mu.Unlock()
	log.Printf("[FEED] %s subscribed to card %s", conn.RemoteAddr(), cardID)

	go h.writePump(sub)
	h.readPump(sub)
}

// Publish sends a card's committed drawing to its subscribers. Slow
// subscribers whose buffer is full are dropped.
func (h *Hub) Publish(cardID string, objects []domain.DrawObject) {
	data, err := json.Marshal(Message{CardID: cardID, Objects: objects})
	if err != nil {
		log.Printf("[FEED] encode card %s: %v", cardID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last[cardID] = data
	for sub := range h.subs {
		if sub.cardID != cardID {
			continue
		}
		select {
		case sub.send <- data:
		default:
			log.Printf("[FEED] dropping slow subscriber %s", sub.conn.RemoteAddr())
			h.removeLocked(sub)
		}
	}
}

// Subscribers returns how many clients follow a card.
func (h *Hub) Subscribers(cardID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for sub := range h.subs {
		if sub.cardID == cardID {
			n++
		}
	}
	return n
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		h.removeLocked(sub)
	}
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/feed", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		h.Close()
	}()

	log.Printf("[FEED] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ── pumps ──────────────────────────────────────────────────

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
}

func (h *Hub) readPump(sub *subscriber) {
	defer func() {
		h.remove(sub)
		sub.conn.Close()
	}()
	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()
	for {
		select {
		case data, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
