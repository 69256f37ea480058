// SPDX-License-Identifier: EPL-2.0

package player

import "time"

// State of a Player.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateStopped
	StateCompleted
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StatePlaying:   "playing",
	StatePaused:    "paused",
	StateStopped:   "stopped",
	StateCompleted: "completed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// EventType tells which fields of an Event are set.
type EventType int

const (
	// EventStateChanged sets State.
	EventStateChanged EventType = iota
	// EventProgress sets Position and Duration.
	EventProgress
	// EventError sets Err. The player stops afterwards.
	EventError
)

// Event is sent on the Events channel.
type Event struct {
	Type     EventType
	State    State
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Percent is the progress in [0, 100], 0 when the duration is unknown.
func (e Event) Percent() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return min(100, float64(e.Position)*100/float64(e.Duration))
}
