// Package serial opens a UART as a raw, zero-timeout byte stream.
//
// Reads never block: with no pending input Read returns (0, nil).
package serial

import (
	"github.com/juju/errors"
)

// DefaultBaud is the factory rate of the Tile UART.
const DefaultBaud = 115200

// CheckBaud validates a baud rate.
func CheckBaud(baud int) error {
	if _, ok := baudRates[baud]; !ok {
		return errors.NotSupportedf("baud rate %d", baud)
	}
	return nil
}
