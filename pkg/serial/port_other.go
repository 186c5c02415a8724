// +build !linux

package serial

import (
	"github.com/juju/errors"
)

var baudRates = map[int]uint32{
	9600:   0,
	19200:  0,
	38400:  0,
	57600:  0,
	115200: 0,
	230400: 0,
}

// Port is not available on this platform.
type Port struct {
	path string
}

// Open fails on platforms without Linux termios.
func Open(path string, baud int) (*Port, error) {
	return nil, errors.NotSupportedf("serial port on this platform")
}

// Path returns the device path.
func (p *Port) Path() string { return p.path }

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) { return 0, errors.NotSupportedf("serial read") }

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) { return 0, errors.NotSupportedf("serial write") }

// Close implements io.Closer.
func (p *Port) Close() error { return nil }
