package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRSSI(t *testing.T) {
	testCases := []struct {
		rssi   int32
		expect State
	}{
		{-20, Good},
		{-90, Good},
		{-91, Marginal},
		{-93, Marginal},
		{-95, Marginal},
		{-96, Poor},
		{-128, Poor},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expect, FromRSSI(tc.rssi), "rssi %d", tc.rssi)
	}
}

func TestStateString(t *testing.T) {
	require.Equal(t, "off", Off.String())
	require.Equal(t, "good", Good.String())
	require.Equal(t, "marginal", Marginal.String())
	require.Equal(t, "poor", Poor.String())
}

func TestLogRenderer(t *testing.T) {
	var r LogRenderer
	require.NoError(t, r.Render(Good))
	require.Equal(t, Good, r.last)
	require.NoError(t, r.Render(Poor))
	require.Equal(t, Poor, r.last)
}
