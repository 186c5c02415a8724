package node

import (
	fx "github.com/robotalks/tile.go/pkg/framework"
	"github.com/robotalks/tile.go/pkg/tile"
)

// LineMessage carries a line read from the modem.
type LineMessage struct {
	Line tile.Line
}

// NewMessage implements Message.
func (m *LineMessage) NewMessage() fx.Message { return &LineMessage{} }

// SignalMessage carries a parsed signal report.
type SignalMessage struct {
	Report *tile.SignalReport
}

// NewMessage implements Message.
func (m *SignalMessage) NewMessage() fx.Message { return &SignalMessage{} }

// TimeMessage carries a parsed time report.
type TimeMessage struct {
	Report *tile.TimeReport
}

// NewMessage implements Message.
func (m *TimeMessage) NewMessage() fx.Message { return &TimeMessage{} }

// SampleRequest asks for one sample cycle.
type SampleRequest struct {
	Epoch int64
}

// NewMessage implements Message.
func (m *SampleRequest) NewMessage() fx.Message { return &SampleRequest{} }
