package sensor

import (
	goerrors "errors"
	"os"
	"syscall"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/physic"
)

func TestPayload(t *testing.T) {
	require.Equal(t, "TEMP: 21, HUM: 45", string(Reading{21, 45}.Payload()))
	require.Equal(t, "TEMP: -3, HUM: 100", string(Reading{-3, 100}.Payload()))
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect Kind
	}{
		{"transient", TransientError(ErrSimulated), Transient},
		{"fatal", FatalError(ErrSimulated), Fatal},
		{"unclassified", goerrors.New("boom"), Fatal},
		{"annotated transient", errors.Annotate(TransientError(ErrSimulated), "read"), Transient},
		{"traced transient", errors.Trace(TransientError(ErrSimulated)), Transient},
		{"closed", ErrClosed, Fatal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, KindOf(tc.err))
		})
	}
	require.Equal(t, Transient, KindOf(TransientError(ErrSimulated)))
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect Kind
	}{
		{"eio", syscall.EIO, Transient},
		{"timeout", &os.PathError{Op: "read", Path: "in_temp_input", Err: syscall.ETIMEDOUT}, Transient},
		{"again", syscall.EAGAIN, Transient},
		{"no device", &os.PathError{Op: "open", Path: "in_temp_input", Err: syscall.ENODEV}, Fatal},
		{"other", goerrors.New("boom"), Fatal},
		{"already classified", FatalError(syscall.EIO), Fatal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, KindOf(Classify(tc.err)))
		})
	}
	require.NoError(t, Classify(nil))
}

func TestFromEnv(t *testing.T) {
	testCases := []struct {
		name   string
		env    physic.Env
		expect Reading
	}{
		{"room", physic.Env{Temperature: physic.ZeroCelsius + 21*physic.Celsius + 700*physic.MilliKelvin, Humidity: 45*physic.PercentRH + 9*physic.MilliRH}, Reading{21, 45}},
		{"freezing", physic.Env{Temperature: physic.ZeroCelsius - 2*physic.Celsius - 500*physic.MilliKelvin, Humidity: 80 * physic.PercentRH}, Reading{-2, 80}},
		{"zero", physic.Env{Temperature: physic.ZeroCelsius}, Reading{0, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, FromEnv(&tc.env))
		})
	}
}

func TestSim(t *testing.T) {
	s := NewSim()
	s.FailEvery = 4
	var temps []int
	for i := 0; i < 8; i++ {
		r, err := s.Read()
		if (i+1)%4 == 0 {
			require.Equal(t, Transient, KindOf(err))
			continue
		}
		require.NoError(t, err)
		require.Equal(t, s.Base.Temperature+s.Base.Humidity, r.Temperature+r.Humidity)
		temps = append(temps, r.Temperature)
	}
	require.Equal(t, []int{22, 23, 24, 22, 21, 20}, temps)
	require.Equal(t, 8, s.Reads())

	require.NoError(t, s.Close())
	_, err := s.Read()
	require.Equal(t, Fatal, KindOf(err))
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{Driver: DriverSim, FailEvery: 2})
	require.NoError(t, err)
	require.Equal(t, 2, s.(*Sim).FailEvery)

	_, err = Open(Config{Driver: "dht22"})
	require.True(t, errors.IsNotValid(err))
}
