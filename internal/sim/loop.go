package sim

import (
	"context"
	"sync"
	"time"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/config"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
)

// Loop drives the world at a fixed tick rate. Commands arrive on a queue
// from any goroutine and are drained at the top of each tick; snapshots
// leave on a latest-wins channel, so a slow consumer only ever misses
// intermediate frames, never blocks the simulation.
type Loop struct {
	world      *World
	budget     time.Duration
	maxCatchup int
	log        log.Log

	mu      sync.Mutex
	pending []Command

	snaps chan Snapshot
}

// NewLoop binds a loop to a world under the configured rates.
func NewLoop(w *World, cfg config.LoopConfig, logger log.Log) *Loop {
	if logger == nil {
		logger = log.Provide()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = config.DefaultTickRate
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = config.DefaultCatchupMaxTicks
	}
	return &Loop{
		world:      w,
		budget:     time.Second / time.Duration(cfg.TickRate),
		maxCatchup: cfg.CatchupMaxTicks,
		log:        logger,
		snaps:      make(chan Snapshot, 1),
	}
}

// World returns the world the loop drives. Only the loop goroutine may step
// or mutate it while Run is active.
func (l *Loop) World() *World { return l.world }

// Enqueue queues a command for the next tick. Safe from any goroutine.
func (l *Loop) Enqueue(cmd Command) {
	l.mu.Lock()
	l.pending = append(l.pending, cmd)
	l.mu.Unlock()
}

// Snapshots returns the latest-wins snapshot channel.
func (l *Loop) Snapshots() <-chan Snapshot { return l.snaps }

func (l *Loop) drain() []Command {
	l.mu.Lock()
	cmds := l.pending
	l.pending = nil
	l.mu.Unlock()
	return cmds
}

// Step runs one tick by hand: drain and apply queued commands, advance the
// world by dt seconds, publish and return the snapshot. Run calls it on the
// clock; tests and headless drivers call it directly.
func (l *Loop) Step(ctx context.Context, dt float64) Snapshot {
	for _, cmd := range l.drain() {
		if err := l.world.Apply(cmd); err != nil {
			l.log.Warn("command rejected",
				log.String("command", string(cmd.Kind)),
				log.Error(err),
			)
		}
	}
	l.world.Step(ctx, dt)
	snap := l.world.Snapshot()
	l.publish(snap)
	return snap
}

// publish replaces whatever snapshot the channel holds with the newest one.
func (l *Loop) publish(snap Snapshot) {
	for {
		select {
		case l.snaps <- snap:
			return
		default:
		}
		select {
		case <-l.snaps:
		default:
		}
	}
}

// Run ticks the world until ctx is cancelled. A late frame integrates at
// most maxCatchup tick budgets of simulated time, so long stalls slow the
// world down instead of teleporting everything.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("loop started",
		log.Duration("tick", l.budget),
		log.Int("catchup_max_ticks", l.maxCatchup),
	)
	ticker := time.NewTicker(l.budget)
	defer ticker.Stop()

	maxDT := l.budget * time.Duration(l.maxCatchup)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopped", log.Uint64("tick", l.world.Tick()))
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			if dt > maxDT {
				dt = maxDT
			}
			last = now
			l.Step(ctx, dt.Seconds())
		}
	}
}
