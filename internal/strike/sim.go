package strike

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Command is one call recorded by SimController.
type Command struct {
	Op     string     `json:"op"`
	Target [6]float64 `json:"target,omitempty"`
	Pin    int        `json:"pin,omitempty"`
	On     bool       `json:"on,omitempty"`
}

// SimController stands in for the arm during dry runs and tests. Each motion
// reports done after BusyPolls polls; Stuck motions never finish.
type SimController struct {
	BusyPolls int
	Stuck     bool
	// FailOp makes the named operation return an error.
	FailOp string
	Quiet  bool

	mu       sync.Mutex
	commands []Command
	pending  int
	outputs  map[int]bool
}

func NewSimController() *SimController {
	return &SimController{outputs: make(map[int]bool)}
}

func (s *SimController) record(c Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Op == s.FailOp {
		return fmt.Errorf("sim: %s failed", c.Op)
	}
	s.commands = append(s.commands, c)
	switch c.Op {
	case "set_output":
		if s.outputs == nil {
			s.outputs = make(map[int]bool)
		}
		s.outputs[c.Pin] = c.On
	default:
		s.pending = s.BusyPolls
	}
	if !s.Quiet {
		log.Printf("[SIM] %s %v pin=%d on=%t", c.Op, c.Target, c.Pin, c.On)
	}
	return nil
}

func (s *SimController) MovePTP(ctx context.Context, pose [6]float64) error {
	return s.record(Command{Op: "ptp", Target: pose})
}

func (s *SimController) MoveLinear(ctx context.Context, pose [6]float64) error {
	return s.record(Command{Op: "lin", Target: pose})
}

func (s *SimController) MoveJoints(ctx context.Context, joints [6]float64) error {
	return s.record(Command{Op: "joints", Target: joints})
}

func (s *SimController) SetDigitalOutput(ctx context.Context, pin int, on bool) error {
	return s.record(Command{Op: "set_output", Pin: pin, On: on})
}

func (s *SimController) MotionDone(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOp == "motion_done" {
		return false, fmt.Errorf("sim: motion state unavailable")
	}
	if s.Stuck {
		return false, nil
	}
	if s.pending > 0 {
		s.pending--
		return false, nil
	}
	return true, nil
}

// Commands returns a copy of everything recorded so far.
func (s *SimController) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Output returns the last value written to pin.
func (s *SimController) Output(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputs[pin]
}
