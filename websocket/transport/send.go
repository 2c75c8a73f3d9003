package transport

import (
	"log"
	"time"

	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/websocket/message"
	"github.com/thesrcielos/PokeMemory/websocket/state"
)

// WriteWait bounds a single write to a subscriber.
var WriteWait = 5 * time.Second

// Send writes msg to sub. A failed or timed out write closes the
// connection, which ends its read loop and unregisters it.
func Send(sub *state.Subscriber, msg message.OutgoingMessage) {
	if sub == nil || sub.Conn == nil {
		return
	}

	sub.ConnMu.Lock()
	defer sub.ConnMu.Unlock()

	if err := sub.Conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		log.Println("Error setting write deadline for", sub.ID, ":", err)
	}
	if err := sub.Conn.WriteJSON(msg); err != nil {
		log.Println("Error sending msg to", sub.ID, ":", err)
		sub.Conn.Close()
	}
}

// SendBoard writes the board to sub with its own row marked.
func SendBoard(sub *state.Subscriber, accounts []stats.Account, size int) {
	if sub == nil {
		return
	}
	Send(sub, message.LeaderboardUpdate(stats.LeaderboardTop(accounts, size, sub.UserID)))
}

// Broadcaster pushes leaderboard updates to every feed registered locally.
type Broadcaster struct {
	registry *state.Registry
	size     int
}

func NewBroadcaster(registry *state.Registry, size int) *Broadcaster {
	return &Broadcaster{registry: registry, size: size}
}

func (b *Broadcaster) BroadcastLeaderboard(accounts []stats.Account) {
	for _, sub := range b.registry.All() {
		SendBoard(sub, accounts, b.size)
	}
}
