package serial

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckBaud(t *testing.T) {
	for _, baud := range []int{9600, 115200} {
		require.NoError(t, CheckBaud(baud))
	}
	for _, baud := range []int{0, 1200, 115201} {
		require.True(t, errors.IsNotSupported(CheckBaud(baud)), "baud %d", baud)
	}
}
