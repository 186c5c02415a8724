package telemetry

import (
	"fmt"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"

	fx "github.com/robotalks/tile.go/pkg/framework"
)

// TypeIDs
const (
	TypeIDMaskEvent uint32 = 0x80000000

	GroupLink   uint32 = 0x00010000
	GroupSample uint32 = 0x00020000

	LinkStatusTypeID  uint32 = TypeIDMaskEvent | GroupLink | 0x0001
	SampleTypeID      uint32 = TypeIDMaskEvent | GroupSample | 0x0001
	SampleErrorTypeID uint32 = TypeIDMaskEvent | GroupSample | 0x0002
)

// Event is a message published by the node.
type Event interface {
	fx.Message
	proto.Message
	TypeID() uint32
	// Topic is the topic suffix after the node ID.
	Topic() string
}

// EventTypes maps type IDs to events.
var EventTypes = map[uint32]Event{
	LinkStatusTypeID:  (*LinkStatus)(nil),
	SampleTypeID:      (*Sample)(nil),
	SampleErrorTypeID: (*SampleError)(nil),
}

// LinkStatus reports the latest signal report and indicator state.
type LinkStatus struct {
	RSSI  int32  `protobuf:"zigzag32,1,opt,name=rssi,proto3" json:"rssi,omitempty"`
	State string `protobuf:"bytes,2,opt,name=state,proto3" json:"state,omitempty"`
	Epoch int64  `protobuf:"varint,3,opt,name=epoch,proto3" json:"epoch,omitempty"`
}

// NewMessage implements Message.
func (m *LinkStatus) NewMessage() fx.Message { return &LinkStatus{} }

// TypeID implements Event.
func (m *LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// Topic implements Event.
func (m *LinkStatus) Topic() string { return "link" }

// ProtoMessage implements proto.Message.
func (m *LinkStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }

// Sample reports a transmitted data frame.
type Sample struct {
	Epoch       int64  `protobuf:"varint,1,opt,name=epoch,proto3" json:"epoch,omitempty"`
	Temperature int32  `protobuf:"zigzag32,2,opt,name=temperature,proto3" json:"temperature,omitempty"`
	Humidity    int32  `protobuf:"zigzag32,3,opt,name=humidity,proto3" json:"humidity,omitempty"`
	Frame       string `protobuf:"bytes,4,opt,name=frame,proto3" json:"frame,omitempty"`
}

// NewMessage implements Message.
func (m *Sample) NewMessage() fx.Message { return &Sample{} }

// TypeID implements Event.
func (m *Sample) TypeID() uint32 { return SampleTypeID }

// Topic implements Event.
func (m *Sample) Topic() string { return "sample" }

// ProtoMessage implements proto.Message.
func (m *Sample) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Sample) Reset() { *m = Sample{} }

// String implements proto.Message.
func (m *Sample) String() string { return proto.CompactTextString(m) }

// SampleError reports a sample cycle aborted by a sensor failure.
type SampleError struct {
	Epoch   int64  `protobuf:"varint,1,opt,name=epoch,proto3" json:"epoch,omitempty"`
	Kind    string `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Message string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// NewMessage implements Message.
func (m *SampleError) NewMessage() fx.Message { return &SampleError{} }

// TypeID implements Event.
func (m *SampleError) TypeID() uint32 { return SampleErrorTypeID }

// Topic implements Event.
func (m *SampleError) Topic() string { return "sample" }

// ProtoMessage implements proto.Message.
func (m *SampleError) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SampleError) Reset() { *m = SampleError{} }

// String implements proto.Message.
func (m *SampleError) String() string { return proto.CompactTextString(m) }

// Typed wraps an event with its type ID.
type Typed struct {
	TypeID  uint32 `protobuf:"fixed32,1,opt,name=type_id,proto3" json:"type_id,omitempty"`
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// Encode serializes an event into a Typed payload.
func Encode(ev Event) ([]byte, error) {
	data, err := proto.Marshal(ev)
	if err != nil {
		return nil, errors.Annotatef(err, "marshal %T", ev)
	}
	return proto.Marshal(&Typed{TypeID: ev.TypeID(), Message: data})
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Decode decodes the wrapped event.
func (m *Typed) Decode() (Event, error) {
	evType, ok := EventTypes[m.TypeID]
	if !ok {
		return nil, &ErrUnknownType{TypeID: m.TypeID}
	}
	ev := evType.NewMessage().(Event)
	if err := proto.Unmarshal(m.Message, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Decode decodes a payload produced by Encode.
func Decode(data []byte) (Event, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, err
	}
	return typed.Decode()
}
