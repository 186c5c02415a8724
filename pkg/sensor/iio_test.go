package sensor

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fn, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(fn), 0755))
	require.NoError(t, ioutil.WriteFile(fn, []byte(content), 0644))
}

func newIIODevices(t *testing.T) string {
	dir, err := ioutil.TempDir("", "iio")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	writeFile(t, filepath.Join(dir, "iio:device0", "name"), "ads1015\n")
	writeFile(t, filepath.Join(dir, "iio:device1", "name"), "dht11\n")
	writeFile(t, filepath.Join(dir, "iio:device1", iioTemperature), "21700\n")
	writeFile(t, filepath.Join(dir, "iio:device1", iioHumidity), "45900\n")
	return dir
}

func TestFindIIO(t *testing.T) {
	dir := newIIODevices(t)
	found, err := FindIIO(dir, "dht11")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "iio:device1"), found)

	_, err = FindIIO(dir, "bme680")
	require.True(t, errors.IsNotFound(err))
}

func TestIIORead(t *testing.T) {
	dir := newIIODevices(t)
	dev := filepath.Join(dir, "iio:device1")
	s, err := OpenIIO(dev)
	require.NoError(t, err)

	r, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, Reading{Temperature: 21, Humidity: 45}, r)

	writeFile(t, filepath.Join(dev, iioTemperature), "-1500\n")
	r, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, Reading{Temperature: -1, Humidity: 45}, r)

	writeFile(t, filepath.Join(dev, iioHumidity), "n/a\n")
	_, err = s.Read()
	require.Error(t, err)
	require.Equal(t, Fatal, KindOf(err))

	require.NoError(t, s.Close())
	_, err = s.Read()
	require.Equal(t, ErrClosed, err)
}

func TestOpenIIOMissing(t *testing.T) {
	dir := newIIODevices(t)
	_, err := OpenIIO(filepath.Join(dir, "iio:device0"))
	require.True(t, errors.IsNotFound(err))
	_, err = OpenIIO(filepath.Join(dir, "iio:device9"))
	require.Error(t, err)
}
