package state

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Subscriber is one open leaderboard feed connection.
type Subscriber struct {
	ID     string
	UserID uint
	Conn   *websocket.Conn
	ConnMu sync.Mutex
}

// Registry tracks the feed connections held by this instance.
type Registry struct {
	subscribers map[string]*Subscriber
	mu          sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[string]*Subscriber)}
}

func (r *Registry) Register(userID uint, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[sub.ID] = sub
	return sub
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subscribers, id)
}

func (r *Registry) Get(id string) *Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.subscribers[id]
}

func (r *Registry) All() []*Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Subscriber, 0, len(r.subscribers))
	for _, s := range r.subscribers {
		all = append(all, s)
	}
	return all
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subscribers)
}
