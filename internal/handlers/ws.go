package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lexcal-dev/lexcal/internal/types"
)

var (
	matterClients   = make(map[string]map[*websocket.Conn]bool)
	matterClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastDocketRefresh tells every client watching a matter that its
// triggers or deadlines changed. The caller decides when to re-fetch; this
// carries no payload beyond the matter id.
func BroadcastDocketRefresh(matterID string) {
	matterClientsMu.RLock()
	clients, exists := matterClients[matterID]
	if !exists || len(clients) == 0 {
		matterClientsMu.RUnlock()
		return
	}

	// Copy so the lock is not held during writes
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	matterClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":      "docket_refresh",
			"message":   "Docket updated",
			"matter_id": matterID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			matterClientsMu.Lock()
			if clients, exists := matterClients[matterID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(matterClients, matterID)
				}
			}
			matterClientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	matterID := c.Param("matter_id")

	if matterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matter ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	matterClientsMu.Lock()
	if matterClients[matterID] == nil {
		matterClients[matterID] = make(map[*websocket.Conn]bool)
	}
	matterClients[matterID][conn] = true
	matterClientsMu.Unlock()

	defer func() {
		matterClientsMu.Lock()

		if clients, exists := matterClients[matterID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(matterClients, matterID)
			}
		}

		matterClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for matter %s", matterID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":      "connected",
		"message":   "WebSocket connection established",
		"matter_id": matterID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for matter %s: %v", matterID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for matter %s: %v", matterID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for matter %s: %v", matterID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for matter %s: %v", matterID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client in matter %s: %s", matterID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from matter %s", matterID)
		}
	}
}
