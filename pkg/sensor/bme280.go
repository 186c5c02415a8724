package sensor

import (
	"sync"

	"github.com/juju/errors"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/devices/bmxx80"
	"periph.io/x/periph/host"
)

// DefaultBME280Addr is the I2C address with SDO pulled low.
const DefaultBME280Addr uint16 = 0x76

// BME280 reads a Bosch BME280 over I2C.
type BME280 struct {
	lock sync.Mutex
	bus  i2c.BusCloser
	dev  *bmxx80.Dev
}

// OpenBME280 opens the I2C bus by name ("" for the first one) and
// initializes the device at addr.
func OpenBME280(busName string, addr uint16) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph/init")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Annotatef(err, "I2C open bus=%s", busName)
	}
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errors.Annotatef(err, "bme280 addr=%#x", addr)
	}
	return &BME280{bus: bus, dev: dev}, nil
}

// Read implements Sensor.
func (s *BME280) Read() (Reading, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.dev == nil {
		return Reading{}, ErrClosed
	}
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return Reading{}, errors.Annotate(Classify(err), "bme280 sense")
	}
	return FromEnv(&env), nil
}

// Close implements Sensor.
func (s *BME280) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	if cerr := s.bus.Close(); err == nil {
		err = cerr
	}
	s.dev = nil
	return err
}

// FromEnv converts a periph measurement to whole units.
func FromEnv(env *physic.Env) Reading {
	return Reading{
		Temperature: int((env.Temperature - physic.ZeroCelsius) / physic.Celsius),
		Humidity:    int(env.Humidity / physic.PercentRH),
	}
}
