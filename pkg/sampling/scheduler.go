// Package sampling decides when to sample the sensor.
//
// The node has no real-time clock, all timing comes from the epochs the
// modem reports. The reference re-bases on every triggering report so
// clock jumps are tolerated; epochs which regress or stop advancing never
// trigger, there is no local timeout to fall back on.
package sampling

// DefaultInterval is the sample interval in epoch seconds.
const DefaultInterval int64 = 1800

// State is the scheduler state, owned by the control loop.
type State struct {
	Reference int64
	Armed     bool
}

// Scheduler advances State on time reports.
type Scheduler struct {
	Interval int64
}

// New creates a Scheduler with the given interval, DefaultInterval if <= 0.
func New(interval int64) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{Interval: interval}
}

// Advance records a reported epoch and tells if a sample is due.
// The first epoch after startup only arms the scheduler.
func (s *Scheduler) Advance(st *State, epoch int64) bool {
	if !st.Armed {
		st.Reference, st.Armed = epoch, true
		return false
	}
	if epoch < st.Reference {
		return false
	}
	// the distance of two int64 always fits in uint64
	if uint64(epoch-st.Reference) >= uint64(s.Interval) {
		st.Reference = epoch
		return true
	}
	return false
}
