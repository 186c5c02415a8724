package sensor

import (
	"errors"
	"sync"
)

// ErrSimulated is the cause of the failures injected by Sim.
var ErrSimulated = errors.New("simulated read failure")

// Sim is a deterministic sensor for bench runs without hardware.
// Readings drift around Base by up to Swing, one step per read.
type Sim struct {
	Base  Reading
	Swing int
	// FailEvery injects a Transient failure on every n-th read.
	// Zero disables it.
	FailEvery int

	lock   sync.Mutex
	reads  int
	closed bool
}

// NewSim creates a Sim with room-like readings.
func NewSim() *Sim {
	return &Sim{Base: Reading{Temperature: 21, Humidity: 45}, Swing: 3}
}

// Read implements Sensor.
func (s *Sim) Read() (Reading, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return Reading{}, ErrClosed
	}
	s.reads++
	if s.FailEvery > 0 && s.reads%s.FailEvery == 0 {
		return Reading{}, TransientError(ErrSimulated)
	}
	d := 0
	if s.Swing > 0 {
		// triangle wave: 0, 1, .. Swing, .. 1, 0, -1, .. -Swing, ..
		period := 4 * s.Swing
		p := s.reads % period
		switch {
		case p <= s.Swing:
			d = p
		case p <= 3*s.Swing:
			d = 2*s.Swing - p
		default:
			d = p - period
		}
	}
	return Reading{Temperature: s.Base.Temperature + d, Humidity: s.Base.Humidity - d}, nil
}

// Reads returns the number of reads attempted.
func (s *Sim) Reads() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.reads
}

// Close implements Sensor.
func (s *Sim) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}
