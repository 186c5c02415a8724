package indicator

import (
	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
)

const gpioConsumer = "tile-indicator"

// GPIO drives a bi-colour LED on two output lines.
// Good is green, Poor is red, Marginal lights both (yellow).
type GPIO struct {
	chip  gpio.Chiper
	lines gpio.Lineser
	red   gpio.LineSetFunc
	green gpio.LineSetFunc
}

// OpenGPIO opens the chip device, e.g. /dev/gpiochip0, and claims the lines.
func OpenGPIO(chipPath string, red, green uint32) (*GPIO, error) {
	chip, err := gpio.Open(chipPath, gpioConsumer)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open chip=%s", chipPath)
	}
	g, err := NewGPIO(chip, red, green)
	if err != nil {
		chip.Close()
		return nil, err
	}
	return g, nil
}

// NewGPIO claims the red and green lines on an opened chip.
func NewGPIO(chip gpio.Chiper, red, green uint32) (*GPIO, error) {
	if red == green {
		return nil, errors.NotValidf("same line %d for red and green", red)
	}
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, gpioConsumer, red, green)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open lines red=%d green=%d", red, green)
	}
	return &GPIO{
		chip:  chip,
		lines: lines,
		red:   lines.SetFunc(red),
		green: lines.SetFunc(green),
	}, nil
}

// Render implements Renderer.
func (g *GPIO) Render(s State) error {
	var red, green byte
	switch s {
	case Good:
		green = 1
	case Marginal:
		red, green = 1, 1
	case Poor:
		red = 1
	}
	g.red(red)
	g.green(green)
	return errors.Annotate(g.lines.Flush(), "gpio flush")
}

// Close turns the LED off and releases the lines.
func (g *GPIO) Close() error {
	err := g.Render(Off)
	if lerr := g.lines.Close(); err == nil {
		err = lerr
	}
	if cerr := g.chip.Close(); err == nil {
		err = cerr
	}
	return err
}
