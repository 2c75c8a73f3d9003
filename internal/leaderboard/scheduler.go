package leaderboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler captures the board every interval until the
// returned scheduler is shut down.
func (s *LeaderboardService) StartSnapshotScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("error creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			rows, err := s.TakeSnapshot(ctx)
			if err != nil {
				log.Printf("[Scheduler] leaderboard snapshot failed: %v", err)
				return
			}
			log.Printf("[Scheduler] leaderboard snapshot saved with %d players", len(rows))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		sched.Shutdown()
		return nil, fmt.Errorf("error scheduling leaderboard snapshot: %w", err)
	}

	sched.Start()
	return sched, nil
}
