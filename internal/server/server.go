// Package server exposes a running simulation to viewers over
// WebSocket and QUIC. Both transports carry the same traffic: JSON
// snapshots out, JSON commands in.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

const shutdownTimeout = 5 * time.Second

// CommandSink receives validated commands decoded from viewers.
// *sim.Loop satisfies it.
type CommandSink interface {
	Enqueue(cmd sim.Command)
}

// Config holds the listen addresses for both transports.
type Config struct {
	WSAddr   string
	QUICAddr string
}

// DefaultConfig returns the addresses used by local play.
func DefaultConfig() Config {
	return Config{WSAddr: ":8080", QUICAddr: ":8443"}
}

// Server owns the viewer-facing transports.
type Server struct {
	cfg  Config
	hub  *Hub
	feed *Feed
	log  log.Log
}

// New wires both transports to the given command sink. Nothing listens
// until Run is called.
func New(cfg Config, sink CommandSink, logger log.Log) *Server {
	logger = logger.With(log.String("component", "server"))
	return &Server{
		cfg:  cfg,
		hub:  NewHub(sink, logger),
		feed: NewFeed(sink, logger),
		log:  logger,
	}
}

// Broadcast encodes one snapshot and fans it out to every viewer on
// both transports.
func (s *Server) Broadcast(snap sim.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("snapshot encode failed", log.Error(err))
		return
	}
	s.hub.Broadcast(payload)
	s.feed.Broadcast(payload)
}

// Run binds both listeners and blocks until ctx is cancelled or a
// transport fails. It returns ctx's error after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.WSAddr)
	if err != nil {
		return fmt.Errorf("server: websocket listen: %w", err)
	}
	quicAddr, err := s.feed.Listen(s.cfg.QUICAddr)
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.log.Info("server listening",
		log.String("ws", ln.Addr().String()),
		log.String("quic", quicAddr.String()))

	httpSrv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: websocket serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.feed.Serve(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutCtx)
		s.hub.Close()
		s.feed.Close()
		s.log.Info("server stopped")
		return ctx.Err()
	})
	return g.Wait()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
