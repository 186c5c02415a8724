package indicator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	gpio "github.com/temoto/gpio-cdev-go"
	gpio_mock "github.com/temoto/gpio-cdev-go/mock"
)

const (
	testRed   uint32 = 17
	testGreen uint32 = 27
)

type ledPins struct {
	red, green byte
}

func newTestGPIO(t *testing.T, pins *ledPins) (*GPIO, *gpio_mock.MockChip, *gpio_mock.MockLines) {
	chip := &gpio_mock.MockChip{}
	lines := &gpio_mock.MockLines{}
	chip.On("OpenLines", gpio.GPIOHANDLE_REQUEST_OUTPUT, gpioConsumer, testRed, testGreen).Return(lines, nil)
	lines.On("SetFunc", testRed).Return(gpio.LineSetFunc(func(v byte) { pins.red = v }))
	lines.On("SetFunc", testGreen).Return(gpio.LineSetFunc(func(v byte) { pins.green = v }))
	g, err := NewGPIO(chip, testRed, testGreen)
	require.NoError(t, err)
	return g, chip, lines
}

func TestGPIORender(t *testing.T) {
	testCases := []struct {
		state  State
		expect ledPins
	}{
		{Good, ledPins{red: 0, green: 1}},
		{Marginal, ledPins{red: 1, green: 1}},
		{Poor, ledPins{red: 1, green: 0}},
		{Off, ledPins{red: 0, green: 0}},
	}

	var pins ledPins
	g, chip, lines := newTestGPIO(t, &pins)
	lines.On("Flush").Return(nil)
	for _, tc := range testCases {
		require.NoError(t, g.Render(tc.state))
		require.Equal(t, tc.expect, pins, "state %s", tc.state)
	}
	lines.AssertNumberOfCalls(t, "Flush", len(testCases))

	lines.On("Close").Return(nil)
	chip.On("Close").Return(nil)
	pins = ledPins{red: 1, green: 1}
	require.NoError(t, g.Close())
	require.Equal(t, ledPins{}, pins)
	chip.AssertExpectations(t)
	lines.AssertExpectations(t)
}

func TestGPIOFlushError(t *testing.T) {
	var pins ledPins
	g, _, lines := newTestGPIO(t, &pins)
	lines.On("Flush").Return(errors.New("EBUSY"))
	err := g.Render(Good)
	require.Error(t, err)
	require.Contains(t, err.Error(), "EBUSY")
}

func TestGPIOCloseFlushError(t *testing.T) {
	var pins ledPins
	g, chip, lines := newTestGPIO(t, &pins)
	lines.On("Flush").Return(errors.New("EBUSY"))
	lines.On("Close").Return(nil)
	chip.On("Close").Return(nil)
	err := g.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "EBUSY")
	chip.AssertExpectations(t)
	lines.AssertExpectations(t)
}

func TestGPIOSameLine(t *testing.T) {
	_, err := NewGPIO(&gpio_mock.MockChip{}, 5, 5)
	require.Error(t, err)
}
