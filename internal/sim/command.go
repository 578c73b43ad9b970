package sim

import "fmt"

// CommandKind names one simulation command. The wire form uses the "action"
// key, matching what clients send over WebSocket.
type CommandKind string

const (
	// CommandSetGoal routes the player to (X, Y).
	CommandSetGoal CommandKind = "set_goal"
	// CommandReset returns every agent to its start pose.
	CommandReset CommandKind = "reset"
	// CommandRecord toggles trace recording of the active monster with On.
	CommandRecord CommandKind = "record"
	// CommandLearn trains a tree from the recorded trace and installs it on
	// the active monster.
	CommandLearn CommandKind = "learn"
	// CommandCycleMonster advances which monster is active.
	CommandCycleMonster CommandKind = "cycle_monster"
)

// Command is one client request against the running simulation. Commands are
// queued by the network layer and applied at the top of the next tick, so
// the world is only ever touched from the loop goroutine.
type Command struct {
	Kind CommandKind `json:"action"`
	X    float64     `json:"x,omitempty"`
	Y    float64     `json:"y,omitempty"`
	On   bool        `json:"on,omitempty"`
}

// Validate rejects kinds the world cannot apply.
func (c Command) Validate() error {
	switch c.Kind {
	case CommandSetGoal, CommandReset, CommandRecord, CommandLearn, CommandCycleMonster:
		return nil
	default:
		return fmt.Errorf("sim: unknown command %q", c.Kind)
	}
}
