package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/redis/go-redis/v9"
)

// StartShotEventSubscriber subscribes to the shot_events channel and
// broadcasts every well-formed event to the hub.
func StartShotEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; shot event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, shotlog.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", shotlog.EventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", shotlog.EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relay(hub, []byte(msg.Payload))
			}
		}
	}()
}

// relay forwards a raw event if it decodes as one.
func relay(hub *Hub, payload []byte) bool {
	var ev struct {
		Type    string `json:"type"`
		CycleID int64  `json:"cycle_id"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil || ev.Type == "" {
		log.Printf("[WS] invalid shot event payload: %v", err)
		return false
	}
	log.Printf("[WS] shot event: type=%s cycle=%d clients=%d", ev.Type, ev.CycleID, hub.ClientCount())
	hub.Broadcast(payload)
	return true
}
