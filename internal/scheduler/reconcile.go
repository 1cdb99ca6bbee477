// Package scheduler runs the periodic user aggregate repair.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/events"
	"github.com/VincentGavrila07/Quizzy/internal/metrics"

	"github.com/robfig/cron/v3"
)

const runTimeout = 2 * time.Minute

type AggregateStore interface {
	ReconcileAll(ctx context.Context) (int64, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Reconciler recomputes every user's totals from their sessions, drops the
// cached leaderboards when anything changed and announces the run.
type Reconciler struct {
	users       AggregateStore
	leaderboard Invalidator
	publisher   events.Publisher
}

func NewReconciler(users AggregateStore, leaderboard Invalidator, publisher events.Publisher) *Reconciler {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Reconciler{users: users, leaderboard: leaderboard, publisher: publisher}
}

func (r *Reconciler) Run(ctx context.Context) (int64, error) {
	updated, err := r.users.ReconcileAll(ctx)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("failure").Inc()
		return 0, err
	}
	metrics.ReconcileRuns.WithLabelValues("success").Inc()

	if updated == 0 {
		return 0, nil
	}
	log.Printf("scheduler: reconciled aggregates of %d users", updated)

	if err := r.leaderboard.Invalidate(ctx); err != nil {
		log.Printf("scheduler: invalidate leaderboards: %v", err)
	}
	event := events.UserAggregatesUpdated{Users: updated, UpdatedAt: time.Now().UTC()}
	if err := r.publisher.Publish(ctx, events.RoutingUserUpdated, event); err != nil {
		log.Printf("scheduler: publish reconcile: %v", err)
	}
	return updated, nil
}

// Start schedules r on spec and returns the running cron, or nil when spec
// is empty.
func Start(spec string, r *Reconciler) (*cron.Cron, error) {
	if spec == "" {
		log.Printf("scheduler: reconcile disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			log.Printf("scheduler: reconcile failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reconcile %q: %w", spec, err)
	}

	log.Printf("scheduler: reconcile scheduled %q", spec)
	c.Start()
	return c, nil
}

// Stop waits for a running job to finish, bounded by ctx.
func Stop(ctx context.Context, c *cron.Cron) {
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		log.Printf("scheduler: stop timed out")
	}
}
