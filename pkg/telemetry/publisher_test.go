package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/tile.go/pkg/framework"
)

type otherMessage struct{}

func (m *otherMessage) NewMessage() fx.Message { return &otherMessage{} }

func TestNewPublisher(t *testing.T) {
	_, err := NewPublisher("mqtt://localhost:1883/tile/", Meta{})
	require.Error(t, err)
	p, err := NewPublisher("mqtt://localhost:1883/tile/", Meta{NodeID: "n1"})
	require.NoError(t, err)
	require.Equal(t, "tile/", p.Broker.Prefix)
}

func TestPublisherControl(t *testing.T) {
	c := &fakeClient{}
	p := newPublisher(&Broker{Client: c, Prefix: "tile/"}, Meta{NodeID: "n1"}, []byte(`{"node-id":"n1"}`))

	var remaining int
	l := fx.NewLoop()
	l.Add(p)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(func(ctx fx.ControlContext) error {
		ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			remaining++
		}))
		return nil
	}))
	l.PostMessage(&LinkStatus{RSSI: -92, State: "marginal", Epoch: 1000})
	l.PostMessage(&otherMessage{})
	l.PostMessage(&Sample{Epoch: 2800, Temperature: 21, Humidity: 45, Frame: "$TD 00*00"})
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, 1, remaining)

	require.Len(t, c.pubs, 2)
	require.Equal(t, "tile/n1/link", c.pubs[0].topic)
	ev, err := Decode(c.pubs[0].payload)
	require.NoError(t, err)
	require.Equal(t, &LinkStatus{RSSI: -92, State: "marginal", Epoch: 1000}, ev)
	require.Equal(t, "tile/n1/sample", c.pubs[1].topic)

	p.onConnected()
	require.Equal(t, published{topic: "tile/n1/meta", qos: 1, retain: true, payload: []byte(`{"node-id":"n1"}`)}, c.pubs[2])
}
