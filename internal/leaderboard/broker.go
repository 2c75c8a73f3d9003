package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const updatesChannel = "leaderboard:updates"

type Broker interface {
	Publish(ctx context.Context, update Update) error
	Subscribe(ctx context.Context, handle func(Update)) error
}

type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("error encoding leaderboard update: %w", err)
	}
	if err := b.client.Publish(ctx, updatesChannel, payload).Err(); err != nil {
		return fmt.Errorf("error publishing leaderboard update: %w", err)
	}
	return nil
}

// Subscribe delivers every update on the channel to handle until ctx is done.
func (b *RedisBroker) Subscribe(ctx context.Context, handle func(Update)) error {
	sub := b.client.Subscribe(ctx, updatesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("error subscribing %w", err)
	}
	log.Printf("Subscribed to %s channel", updatesChannel)

	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update Update
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					log.Println("Error decoding leaderboard update:", err)
					continue
				}
				handle(update)
			}
		}
	}()
	return nil
}
