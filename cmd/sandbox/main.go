// Command sandbox runs the game-AI sandbox: a fixed-rate simulation of
// a player and one or more AI monsters, streamed to viewers over
// WebSocket and QUIC.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/config"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/events/bus"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/server"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to a sandbox config file (YAML)")
	flag.Parse()

	if err := run(*configPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.Server.Enabled = true
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world, err := sim.NewWorld(cfg, bus.New(), logger)
	if err != nil {
		return err
	}
	loop := sim.NewLoop(world, cfg.Loop, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })

	if cfg.Server.Enabled {
		srv := server.New(server.Config{
			WSAddr:   cfg.Server.WSAddr,
			QUICAddr: cfg.Server.QUICAddr,
		}, loop, logger)
		g.Go(func() error { return srv.Run(ctx) })
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case snap := <-loop.Snapshots():
					srv.Broadcast(snap)
				}
			}
		})
	}

	return g.Wait()
}
