// Package client provides a small SDK for driving and watching a
// running sandbox over its WebSocket endpoint.
package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

// Config holds connection settings for a sandbox client.
type Config struct {
	// ServerURL is the WebSocket endpoint, e.g. ws://localhost:8080/ws.
	ServerURL string
	// ConnectTimeout bounds the dial. Zero means no timeout.
	ConnectTimeout time.Duration
	// SnapshotBuffer is how many snapshots may queue before old ones are
	// shed in favour of fresh state.
	SnapshotBuffer int
	LogLevel       log.Level
}

// DefaultConfig returns settings that match a locally running sandbox.
func DefaultConfig() Config {
	return Config{
		ServerURL:      "ws://localhost:8080/ws",
		ConnectTimeout: 10 * time.Second,
		SnapshotBuffer: 8,
		LogLevel:       log.LevelInfo,
	}
}

// Client is a live connection to a sandbox server. Snapshots stream in
// on Snapshots; commands go out through the typed helpers.
type Client struct {
	conn   *websocket.Conn
	snaps  chan sim.Snapshot
	closed int32
	wg     sync.WaitGroup

	writeMu sync.Mutex
	logger  log.Log

	dropped  uint64
	rejected uint64
}

// Dial connects to a sandbox server and starts reading snapshots.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, ErrInvalidConfig
	}
	if cfg.SnapshotBuffer <= 0 {
		cfg.SnapshotBuffer = 8
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.ServerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", cfg.ServerURL, err)
	}

	c := &Client{
		conn:   conn,
		snaps:  make(chan sim.Snapshot, cfg.SnapshotBuffer),
		logger: log.New(cfg.LogLevel).With(log.String("component", "sdk")),
	}
	c.wg.Add(1)
	go c.readLoop()
	return c, nil
}

// Snapshots delivers world state as it arrives. The channel closes when
// the connection ends.
func (c *Client) Snapshots() <-chan sim.Snapshot { return c.snaps }

// Dropped reports how many snapshots were shed because the reader was
// not keeping up.
func (c *Client) Dropped() uint64 { return atomic.LoadUint64(&c.dropped) }

// Rejected reports how many snapshots failed checksum verification.
func (c *Client) Rejected() uint64 { return atomic.LoadUint64(&c.rejected) }

// SetGoal asks the server to route the player to a point.
func (c *Client) SetGoal(x, y float64) error {
	return c.send(sim.Command{Kind: sim.CommandSetGoal, X: x, Y: y})
}

// Reset returns the world to its starting poses.
func (c *Client) Reset() error {
	return c.send(sim.Command{Kind: sim.CommandReset})
}

// Record toggles trace recording of the active monster.
func (c *Client) Record(on bool) error {
	return c.send(sim.Command{Kind: sim.CommandRecord, On: on})
}

// Learn fits a decision tree to the recorded trace and installs it on
// the active monster.
func (c *Client) Learn() error {
	return c.send(sim.Command{Kind: sim.CommandLearn})
}

// CycleMonster moves control focus to the next monster.
func (c *Client) CycleMonster() error {
	return c.send(sim.Command{Kind: sim.CommandCycleMonster})
}

func (c *Client) send(cmd sim.Command) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientClosed
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("client: send %s: %w", cmd.Kind, err)
	}
	return nil
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	err := c.conn.Close()
	c.wg.Wait()
	return err
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.snaps)

	for {
		var snap sim.Snapshot
		if err := c.conn.ReadJSON(&snap); err != nil {
			if atomic.LoadInt32(&c.closed) == 0 {
				c.logger.Debug("connection lost", log.Error(err))
			}
			return
		}
		if !snap.Verify() {
			atomic.AddUint64(&c.rejected, 1)
			c.logger.Warn("snapshot checksum mismatch", log.Uint64("tick", snap.Tick))
			continue
		}
		select {
		case c.snaps <- snap:
		default:
			// Full buffer: shed the oldest so fresh state wins.
			select {
			case <-c.snaps:
			default:
			}
			atomic.AddUint64(&c.dropped, 1)
			select {
			case c.snaps <- snap:
			default:
			}
		}
	}
}
