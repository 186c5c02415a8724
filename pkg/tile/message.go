package tile

import (
	"fmt"
	"strings"
)

// Line is the text of one read from the modem.
// Each byte is one character, no multi-byte decoding is applied,
// so byte offsets equal character offsets.
type Line string

// String renders the line for logs, mapping each byte to its code point.
func (l Line) String() string {
	var sb strings.Builder
	sb.Grow(len(l))
	for i := 0; i < len(l); i++ {
		sb.WriteRune(rune(l[i]))
	}
	return sb.String()
}

// Message is a report parsed from a Line.
type Message interface {
	Leader() string
}

// SignalReport is the $RT RSSI report.
type SignalReport struct {
	Raw  string
	RSSI int32
}

// Leader implements Message.
func (m *SignalReport) Leader() string { return LeaderRSSI }

// String implements fmt.Stringer.
func (m *SignalReport) String() string { return fmt.Sprintf("%s RSSI=%d", LeaderRSSI, m.RSSI) }

// TimeReport is the $DT date/time report carrying the modem epoch.
type TimeReport struct {
	Raw   string
	Epoch int64
}

// Leader implements Message.
func (m *TimeReport) Leader() string { return LeaderTime }

// String implements fmt.Stringer.
func (m *TimeReport) String() string { return fmt.Sprintf("%s %d", LeaderTime, m.Epoch) }
