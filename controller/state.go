package controller

import (
	"fmt"

	"github.com/ythdp/ythdp/quality"
)

// State is the resolution attempt the controller is in.
type State interface {
	fmt.Stringer
	attempts() int
}

// Idle means no attempt is in flight.
type Idle struct{}

func (Idle) String() string { return "idle" }
func (Idle) attempts() int { return 0 }

// Retrying means Count retries have been scheduled for the current player.
type Retrying struct {
	Count int
}

func (r Retrying) String() string { return fmt.Sprintf("retrying (%d)", r.Count) }
func (r Retrying) attempts() int { return r.Count }

// Committed means Tier was the last quality pinned on the current player.
type Committed struct {
	Tier quality.ID
}

func (c Committed) String() string { return "committed " + string(c.Tier) }
func (Committed) attempts() int { return 0 }
