//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/config"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/events/bus"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/server"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

// App bundles every long-lived component of a sandbox process.
type App struct {
	Config *config.Config
	Log    log.Log
	Bus    *bus.Bus
	World  *sim.World
	Loop   *sim.Loop
	Server *server.Server
}

func ProvideLogger(cfg *config.Config) log.Log {
	return log.New(log.ParseLevel(cfg.LogLevel))
}

func ProvideLoopConfig(cfg *config.Config) config.LoopConfig {
	return cfg.Loop
}

func ProvideServer(cfg *config.Config, loop *sim.Loop, logger log.Log) *server.Server {
	return server.New(server.Config{
		WSAddr:   cfg.Server.WSAddr,
		QUICAddr: cfg.Server.QUICAddr,
	}, loop, logger)
}

// InitializeSandbox builds a sandbox process from a config file path.
func InitializeSandbox(path string) (*App, error) {
	wire.Build(
		config.Load,
		ProvideLogger,
		ProvideLoopConfig,
		ProvideServer,
		bus.New,
		sim.NewWorld,
		sim.NewLoop,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
