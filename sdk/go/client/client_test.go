package client

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/server"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

type sinkRecorder struct {
	mu   sync.Mutex
	cmds []sim.Command
}

func (r *sinkRecorder) Enqueue(cmd sim.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
}

func (r *sinkRecorder) commands() []sim.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sim.Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

func newTestClient(t *testing.T) (*Client, *server.Hub, *sinkRecorder) {
	t.Helper()
	sink := &sinkRecorder{}
	hub := server.NewHub(sink, log.Nop())
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.ServerURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.LogLevel = log.LevelSilent

	c, err := Dial(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, hub, sink
}

func broadcast(t *testing.T, hub *server.Hub, snap sim.Snapshot) {
	t.Helper()
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	hub.Broadcast(payload)
}

func TestClientCommandsReachTheServer(t *testing.T) {
	c, _, sink := newTestClient(t)

	require.NoError(t, c.SetGoal(120, 80))
	require.NoError(t, c.Record(true))
	require.NoError(t, c.Learn())
	require.NoError(t, c.CycleMonster())
	require.NoError(t, c.Reset())

	require.Eventually(t, func() bool {
		return len(sink.commands()) == 5
	}, time.Second, 10*time.Millisecond)

	cmds := sink.commands()
	require.Equal(t, sim.CommandSetGoal, cmds[0].Kind)
	require.Equal(t, 120.0, cmds[0].X)
	require.Equal(t, 80.0, cmds[0].Y)
	require.Equal(t, sim.CommandRecord, cmds[1].Kind)
	require.True(t, cmds[1].On)
	require.Equal(t, sim.CommandLearn, cmds[2].Kind)
	require.Equal(t, sim.CommandCycleMonster, cmds[3].Kind)
	require.Equal(t, sim.CommandReset, cmds[4].Kind)
}

func TestClientReceivesVerifiedSnapshots(t *testing.T) {
	c, hub, _ := newTestClient(t)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	snap := sim.Snapshot{
		Tick:   7,
		Player: sim.AgentState{Name: "player", Position: geom.Vec(40, 40)},
	}
	snap.Seal()
	broadcast(t, hub, snap)

	select {
	case got := <-c.Snapshots():
		require.Equal(t, uint64(7), got.Tick)
		require.Equal(t, geom.Vec(40, 40), got.Player.Position)
	case <-time.After(time.Second):
		t.Fatal("no snapshot arrived")
	}
	require.Zero(t, c.Rejected())
}

func TestClientRejectsTamperedSnapshots(t *testing.T) {
	c, hub, _ := newTestClient(t)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	bad := sim.Snapshot{Tick: 3}
	bad.Seal()
	bad.Checksum++
	broadcast(t, hub, bad)

	good := sim.Snapshot{Tick: 4}
	good.Seal()
	broadcast(t, hub, good)

	select {
	case got := <-c.Snapshots():
		require.Equal(t, uint64(4), got.Tick, "tampered snapshot should have been discarded")
	case <-time.After(time.Second):
		t.Fatal("no snapshot arrived")
	}
	require.Equal(t, uint64(1), c.Rejected())
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c, _, _ := newTestClient(t)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.SetGoal(1, 2), ErrClientClosed)

	_, open := <-c.Snapshots()
	require.False(t, open, "snapshot channel should close with the connection")
}

func TestDialValidatesConfig(t *testing.T) {
	_, err := Dial(context.Background(), Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
