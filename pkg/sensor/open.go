package sensor

import (
	"github.com/juju/errors"
)

// Drivers.
const (
	DriverIIO    = "iio"
	DriverBME280 = "bme280"
	DriverSim    = "sim"
)

// Config selects and configures a driver.
type Config struct {
	Driver string `hcl:"driver"`
	// Device is the IIO sysfs directory or driver name.
	Device string `hcl:"device"`
	// Bus is the I2C bus name, empty for the first bus.
	Bus  string `hcl:"bus"`
	Addr int    `hcl:"addr"`
	// FailEvery configures the sim driver.
	FailEvery int `hcl:"fail_every"`
}

// Open opens the configured sensor.
func Open(c Config) (Sensor, error) {
	switch c.Driver {
	case DriverIIO:
		dev := c.Device
		if dev == "" {
			dev = "dht11"
		}
		return OpenIIO(dev)
	case DriverBME280:
		addr := DefaultBME280Addr
		if c.Addr > 0 {
			addr = uint16(c.Addr)
		}
		return OpenBME280(c.Bus, addr)
	case DriverSim:
		s := NewSim()
		s.FailEvery = c.FailEvery
		return s, nil
	}
	return nil, errors.NotValidf("sensor driver %q", c.Driver)
}
