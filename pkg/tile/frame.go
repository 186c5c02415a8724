package tile

import (
	"encoding/hex"
	"io"
)

const hexDigits = "0123456789ABCDEF"

// Command leaders.
const (
	LeaderRSSI = "$RT"
	LeaderTime = "$DT"
	LeaderData = "$TD"
)

// Frame is a checksummed command ready for the wire.
type Frame struct {
	Payload  []byte
	Checksum byte
}

// Checksum calculates the XOR of all bytes but the leading '$'.
func Checksum(cmd []byte) byte {
	var cs byte
	for _, b := range cmd[1:] {
		cs ^= b
	}
	return cs
}

// Encode frames a command. cmd must not be empty.
func Encode(cmd []byte) Frame {
	if len(cmd) == 0 {
		panic("tile: empty command")
	}
	payload := make([]byte, len(cmd))
	copy(payload, cmd)
	return Frame{Payload: payload, Checksum: Checksum(payload)}
}

// Bytes returns encoded bytes for sending.
func (f Frame) Bytes() []byte {
	b := make([]byte, len(f.Payload), len(f.Payload)+4)
	copy(b, f.Payload)
	return append(b, '*', hexDigits[f.Checksum>>4], hexDigits[f.Checksum&0x0f], '\n')
}

// WriteTo writes encoded bytes.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// String implements fmt.Stringer without the trailing newline.
func (f Frame) String() string {
	b := f.Bytes()
	return string(b[:len(b)-1])
}

// Command builds a command from leader and body separated by a space.
func Command(leader, body string) []byte {
	cmd := make([]byte, 0, len(leader)+1+len(body))
	cmd = append(cmd, leader...)
	cmd = append(cmd, ' ')
	return append(cmd, body...)
}

// DataCommand builds a $TD command carrying payload as lower case hex.
func DataCommand(payload []byte) []byte {
	return Command(LeaderData, hex.EncodeToString(payload))
}

// Startup commands sent once at boot.
var (
	// RSSI report every 5 seconds.
	ConfigureRSSI = Encode(Command(LeaderRSSI, "5"))
	// Date/time report rate. The value on the wire is 10, kept as shipped.
	ConfigureTime = Encode(Command(LeaderTime, "10"))
)
