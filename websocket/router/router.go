package router

import (
	"context"
	"log"

	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/websocket/message"
	"github.com/thesrcielos/PokeMemory/websocket/state"
	"github.com/thesrcielos/PokeMemory/websocket/transport"
)

// Board is the read side of the leaderboard used by feed clients.
type Board interface {
	TopAccounts(ctx context.Context) ([]stats.Account, error)
	Size() int
}

type Router struct {
	board    Board
	handlers map[string]func(sub *state.Subscriber, msg message.Message)
}

func NewRouter(board Board) *Router {
	r := &Router{board: board}
	r.handlers = map[string]func(sub *state.Subscriber, msg message.Message){
		message.TypeRefresh: r.handleRefresh,
		message.TypePing:    r.handlePing,
	}
	return r
}

func (r *Router) RouteMessage(sub *state.Subscriber, msg message.Message) {
	if handler, ok := r.handlers[msg.Type]; ok {
		handler(sub, msg)
	} else {
		log.Println("Unknown message type:", msg.Type)
	}
}

// SendBoard writes the current board to sub.
func (r *Router) SendBoard(ctx context.Context, sub *state.Subscriber) {
	accounts, err := r.board.TopAccounts(ctx)
	if err != nil {
		log.Println("Error loading leaderboard for", sub.ID, ":", err)
		transport.Send(sub, message.OutgoingMessage{
			Type:    message.TypeError,
			Payload: message.ErrorPayload{Message: "leaderboard unavailable"},
		})
		return
	}
	transport.SendBoard(sub, accounts, r.board.Size())
}

func (r *Router) handleRefresh(sub *state.Subscriber, _ message.Message) {
	r.SendBoard(context.Background(), sub)
}

func (r *Router) handlePing(sub *state.Subscriber, _ message.Message) {
	transport.Send(sub, message.OutgoingMessage{Type: message.TypePong})
}
