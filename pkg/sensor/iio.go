package sensor

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/juju/errors"
)

// IIODevicesDir is where the kernel lists Industrial I/O devices.
const IIODevicesDir = "/sys/bus/iio/devices"

const (
	iioTemperature = "in_temp_input"
	iioHumidity    = "in_humidityrelative_input"
)

// IIO reads a sensor exposed by a Linux IIO driver, e.g. dht11
// which also serves DHT22. Values are in milli-units.
type IIO struct {
	dir    string
	lock   sync.Mutex
	closed bool
}

// FindIIO returns the sysfs directory of the first IIO device
// with the given driver name.
func FindIIO(devicesDir, name string) (string, error) {
	names, err := filepath.Glob(filepath.Join(devicesDir, "iio:device*", "name"))
	if err != nil {
		return "", errors.Trace(err)
	}
	for _, fn := range names {
		content, err := ioutil.ReadFile(fn)
		if err != nil {
			continue
		}
		if string(bytes.TrimSpace(content)) == name {
			return filepath.Dir(fn), nil
		}
	}
	return "", errors.NotFoundf("iio device %q in %s", name, devicesDir)
}

// OpenIIO opens the device at dir. If dir is not a path, it is
// looked up as a driver name under IIODevicesDir.
func OpenIIO(dir string) (*IIO, error) {
	if filepath.Base(dir) == dir {
		found, err := FindIIO(IIODevicesDir, dir)
		if err != nil {
			return nil, err
		}
		dir = found
	}
	if _, err := ioutil.ReadDir(dir); err != nil {
		return nil, errors.Annotatef(err, "iio open %s", dir)
	}
	for _, fn := range []string{iioTemperature, iioHumidity} {
		if matches, _ := filepath.Glob(filepath.Join(dir, fn)); len(matches) == 0 {
			return nil, errors.NotFoundf("%s in %s", fn, dir)
		}
	}
	return &IIO{dir: dir}, nil
}

// Read implements Sensor.
func (s *IIO) Read() (Reading, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return Reading{}, ErrClosed
	}
	temp, err := s.readMilli(iioTemperature)
	if err != nil {
		return Reading{}, err
	}
	hum, err := s.readMilli(iioHumidity)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Temperature: int(temp / 1000), Humidity: int(hum / 1000)}, nil
}

func (s *IIO) readMilli(fn string) (int64, error) {
	content, err := ioutil.ReadFile(filepath.Join(s.dir, fn))
	if err != nil {
		return 0, errors.Annotatef(Classify(err), "iio read %s", fn)
	}
	val, err := strconv.ParseInt(string(bytes.TrimSpace(content)), 10, 64)
	if err != nil {
		return 0, errors.Annotatef(FatalError(err), "iio parse %s", fn)
	}
	return val, nil
}

// Close implements Sensor.
func (s *IIO) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}
