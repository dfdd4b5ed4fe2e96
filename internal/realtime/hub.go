package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connections are grouped per user so a notification write can nudge
// every open session of that user to refetch.
var (
	userClients   = make(map[uint]map[*websocket.Conn]bool)
	userClientsMu sync.RWMutex
)

const writeWait = 10 * time.Second

func Register(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	if userClients[userID] == nil {
		userClients[userID] = make(map[*websocket.Conn]bool)
	}
	userClients[userID][conn] = true
	userClientsMu.Unlock()
}

func Unregister(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	if clients, exists := userClients[userID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(userClients, userID)
		}
	}
	userClientsMu.Unlock()
}

// NotifyUser pushes a refresh hint to every open connection of a user.
// Dead connections are dropped along the way.
func NotifyUser(userID uint) {
	userClientsMu.RLock()
	clients, exists := userClients[userID]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	userClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for notification push: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Notifications updated",
		})

		if err != nil {
			log.Printf("Failed to push notification refresh: %v", err)
			Unregister(userID, conn)
			conn.Close()
		}
	}
}
