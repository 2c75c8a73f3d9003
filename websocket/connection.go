package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/PokeMemory/websocket/message"
	"github.com/thesrcielos/PokeMemory/websocket/state"
)

func (h *Handler) listenSubscriberMessages(sub *state.Subscriber) {
	defer func() {
		log.Printf("Leaderboard subscriber disconnected: %s", sub.ID)
		h.registry.Unregister(sub.ID)
		sub.Conn.Close()
	}()

	for {
		_, data, err := sub.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Error reading message:", err)
			}
			break
		}

		var msg message.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Println("Error decoding message:", err)
			continue
		}

		h.router.RouteMessage(sub, msg)
	}
}
