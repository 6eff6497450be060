// services/scheduler.go
package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// StartReconcileScheduler re-reads the store every interval so claims the bot
// writes into the backing file show up without a restart. The caller owns the
// returned scheduler and should Shutdown it.
func (s *RewardService) StartReconcileScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			before := s.Index.Stats()
			result := s.Refresh()
			after := s.Index.Stats()
			if after.Claimed != before.Claimed {
				log.Printf("🎁 [Scheduler] Claimed codes %d → %d (store %s)", before.Claimed, after.Claimed, result.Status)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule reconcile job: %w", err)
	}

	sched.Start()
	log.Printf("🔁 [Scheduler] Reconciling code index every %s", interval)
	return sched, nil
}
