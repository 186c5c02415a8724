// Package indicator reflects link quality on a local indicator.
package indicator

// State is the indicator state.
type State int

// States
const (
	Off State = iota
	Good
	Marginal
	Poor
)

// RSSI thresholds in dBm, both exclusive.
const (
	GoodAbove int32 = -91
	PoorBelow int32 = -95
)

// FromRSSI maps a signal strength to a State.
func FromRSSI(rssi int32) State {
	switch {
	case rssi > GoodAbove:
		return Good
	case rssi < PoorBelow:
		return Poor
	default:
		return Marginal
	}
}

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Good:
		return "good"
	case Marginal:
		return "marginal"
	case Poor:
		return "poor"
	}
	return "off"
}

// Renderer shows a State on a physical indicator.
type Renderer interface {
	Render(State) error
}

// RenderFunc is func form of Renderer.
type RenderFunc func(State) error

// Render implements Renderer.
func (f RenderFunc) Render(s State) error {
	return f(s)
}
