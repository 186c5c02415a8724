package tile

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// trailerLen is the "HH\n" checksum digits and newline ending a line.
const trailerLen = 3

// Parse classifies a line into a Message.
// Lines with other leaders, without a value token, or acknowledgements
// without a report field return (nil, nil). A report field which is not
// numeric returns a *ParseError.
func Parse(line Line) (Message, error) {
	s := string(line)
	if len(s) < trailerLen {
		s = ""
	} else {
		s = s[:len(s)-trailerLen]
	}
	sp := strings.IndexByte(s, ' ')
	if sp < 0 {
		return nil, nil
	}
	leader, value := s[:sp], before(s[sp+1:], ' ')
	switch leader {
	case LeaderRSSI:
		return parseSignal(value)
	case LeaderTime:
		return parseTime(value)
	}
	return nil, nil
}

// parseSignal extracts N from "RSSI=N,...*".
func parseSignal(value string) (Message, error) {
	if !strings.Contains(value, "RSSI") {
		return nil, nil
	}
	field := value
	if i := strings.IndexByte(field, '='); i >= 0 {
		field = before(field[i+1:], '=')
	}
	field = before(before(before(field, ','), '*'), '\n')
	rssi, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return nil, &ParseError{Leader: LeaderRSSI, Field: field, Err: err}
	}
	return &SignalReport{Raw: field, RSSI: int32(rssi)}, nil
}

// parseTime extracts N from "N,V".
func parseTime(value string) (Message, error) {
	if !strings.Contains(value, ",") {
		return nil, nil
	}
	field := before(before(value, ','), '\n')
	epoch, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return nil, &ParseError{Leader: LeaderTime, Field: field, Err: err}
	}
	return &TimeReport{Raw: field, Epoch: epoch}, nil
}

// before returns s up to the first sep, or s when sep is absent.
func before(s string, sep byte) string {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// VerifyChecksum recomputes the checksum of the last "$...*HH" in line.
func VerifyChecksum(line Line) error {
	s := strings.TrimRight(string(line), "\r\n")
	star := strings.LastIndexByte(s, '*')
	if star < 1 || len(s)-star-1 != 2 {
		return ErrNoChecksum
	}
	start := strings.LastIndexByte(s[:star], '$')
	if start < 0 {
		return ErrNoChecksum
	}
	received, err := hex.DecodeString(s[star+1:])
	if err != nil {
		return ErrNoChecksum
	}
	actual := Checksum([]byte(s[start:star]))
	if received[0] != actual {
		return &ChecksumError{Received: received[0], Actual: actual}
	}
	return nil
}
