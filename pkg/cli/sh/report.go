package sh

import (
	"fmt"
	"strings"

	"github.com/robotalks/tile.go/pkg/indicator"
	"github.com/robotalks/tile.go/pkg/tile"
)

// LineReport describes how the node would treat a line.
type LineReport struct {
	Line     string `json:"line"`
	Kind     string `json:"kind"`
	RSSI     *int32 `json:"rssi,omitempty"`
	Link     string `json:"link,omitempty"`
	Epoch    *int64 `json:"epoch,omitempty"`
	Checksum string `json:"checksum"`
	Error    string `json:"error,omitempty"`
}

// Line kinds.
const (
	KindSignal  = "signal"
	KindTime    = "time"
	KindIgnored = "ignored"
	KindError   = "error"
)

// DescribeLine parses a line and checks its checksum.
func DescribeLine(line tile.Line) *LineReport {
	r := &LineReport{Line: line.String(), Checksum: "ok"}
	if err := tile.VerifyChecksum(line); err != nil {
		r.Checksum = err.Error()
	}
	msg, err := tile.Parse(line)
	switch m := msg.(type) {
	case *tile.SignalReport:
		r.Kind, r.RSSI, r.Link = KindSignal, &m.RSSI, indicator.FromRSSI(m.RSSI).String()
	case *tile.TimeReport:
		r.Kind, r.Epoch = KindTime, &m.Epoch
	default:
		r.Kind = KindIgnored
	}
	if err != nil {
		r.Kind, r.Error = KindError, err.Error()
	}
	return r
}

// String implements fmt.Stringer.
func (r *LineReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q %s", r.Line, r.Kind)
	switch {
	case r.RSSI != nil:
		fmt.Fprintf(&sb, " rssi=%d link=%s", *r.RSSI, r.Link)
	case r.Epoch != nil:
		fmt.Fprintf(&sb, " epoch=%d", *r.Epoch)
	case r.Error != "":
		fmt.Fprintf(&sb, " %s", r.Error)
	}
	fmt.Fprintf(&sb, " checksum=%s", r.Checksum)
	return sb.String()
}

// FrameReport shows an encoded frame.
type FrameReport struct {
	Frame    string `json:"frame"`
	Checksum string `json:"checksum"`
}

// NewFrameReport creates a FrameReport.
func NewFrameReport(f tile.Frame) *FrameReport {
	return &FrameReport{Frame: f.String(), Checksum: fmt.Sprintf("%02X", f.Checksum)}
}

// String implements fmt.Stringer.
func (r *FrameReport) String() string {
	return r.Frame
}

// LinkReport shows the indicator state for an RSSI.
type LinkReport struct {
	RSSI int32  `json:"rssi"`
	Link string `json:"link"`
}

// String implements fmt.Stringer.
func (r *LinkReport) String() string {
	return fmt.Sprintf("%d dBm: %s", r.RSSI, r.Link)
}
