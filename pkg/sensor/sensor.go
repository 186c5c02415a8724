// Package sensor reads temperature and relative humidity from
// environmental sensors.
//
// Every driver reports whole units truncated toward zero and
// classifies its failures as Transient (retry on the next cycle)
// or Fatal (the sensor is unusable).
package sensor

import (
	goerrors "errors"
	"fmt"
	"syscall"

	"github.com/juju/errors"
)

// Reading is a single measurement.
type Reading struct {
	// Temperature in degrees Celsius.
	Temperature int
	// Humidity in percent relative humidity.
	Humidity int
}

// Payload formats the reading as transmitted upstream.
func (r Reading) Payload() []byte {
	return []byte(fmt.Sprintf("TEMP: %d, HUM: %d", r.Temperature, r.Humidity))
}

// Sensor is implemented by drivers.
type Sensor interface {
	Read() (Reading, error)
	Close() error
}

// Kind classifies a sensor failure.
type Kind int

// Kinds of sensor failures.
const (
	Transient Kind = iota
	Fatal
)

func (k Kind) String() string {
	if k == Transient {
		return "transient"
	}
	return "fatal"
}

// Error is a classified sensor failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sensor %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrClosed is returned when reading a closed sensor.
var ErrClosed = FatalError(goerrors.New("closed"))

// TransientError marks err as worth a retry.
func TransientError(err error) error {
	return &Error{Kind: Transient, Err: err}
}

// FatalError marks err as unrecoverable.
func FatalError(err error) error {
	return &Error{Kind: Fatal, Err: err}
}

// KindOf returns the kind of err. Unclassified errors are Fatal.
func KindOf(err error) Kind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	var e *Error
	if goerrors.As(err, &e) {
		return e.Kind
	}
	return Fatal
}

// transientErrnos are reported by bus and kernel drivers when a
// single conversion failed, e.g. a DHT checksum mismatch.
var transientErrnos = []syscall.Errno{
	syscall.EIO,
	syscall.ETIMEDOUT,
	syscall.EAGAIN,
	syscall.EBUSY,
	syscall.EINTR,
}

// Classify wraps an I/O error with the kind derived from its errno.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if goerrors.As(err, &e) {
		return err
	}
	var errno syscall.Errno
	if goerrors.As(err, &errno) {
		for _, t := range transientErrnos {
			if errno == t {
				return TransientError(err)
			}
		}
	}
	return FatalError(err)
}
