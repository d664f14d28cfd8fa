package ws

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/shotlog"
)

// ServeFeed upgrades the request and streams shot events to it. A new client
// first receives the cached last plan, when there is one.
func ServeFeed(hub *Hub, rec *shotlog.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			addr: c.ClientIP(),
			send: make(chan []byte, 64),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		last, ok, err := rec.LastPlan(ctx)
		cancel()
		if err != nil {
			log.Printf("[WS] last plan lookup failed: %v", err)
		} else if ok {
			client.send <- last
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
