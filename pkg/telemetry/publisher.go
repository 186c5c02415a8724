package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	fx "github.com/robotalks/tile.go/pkg/framework"
)

// Meta describes the node, published retained on <node-id>/meta.
type Meta struct {
	NodeID    string `json:"node-id"`
	Serial    string `json:"serial,omitempty"`
	Sensor    string `json:"sensor,omitempty"`
	Indicator string `json:"indicator,omitempty"`
	Interval  int64  `json:"sample-interval,omitempty"`
}

// Publisher publishes Events posted in the loop.
type Publisher struct {
	Broker *Broker
	Meta   Meta

	metaJSON []byte
}

// NewPublisher creates a Publisher. The broker retains meta until the
// node disconnects, then the will clears it.
func NewPublisher(brokerURL string, meta Meta) (*Publisher, error) {
	if meta.NodeID == "" {
		return nil, errors.NotValidf("empty node id")
	}
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, errors.Trace(err)
	}
	opts, prefix, err := BrokerOptions(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(prefix+meta.NodeID+"/"+MetaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("tile:" + meta.NodeID)
	}
	return newPublisher(NewBroker(opts, prefix), meta, metaJSON), nil
}

func newPublisher(b *Broker, meta Meta, metaJSON []byte) *Publisher {
	p := &Publisher{Broker: b, Meta: meta, metaJSON: metaJSON}
	p.Broker.OnConnect = func(*Broker) { p.onConnected() }
	return p
}

// Publish sends the event without waiting for delivery.
func (p *Publisher) Publish(ev Event) error {
	_, err := p.Broker.PublishEvent(p.Meta.NodeID, ev)
	return err
}

// Control implements Controller. It takes every Event in the store.
func (p *Publisher) Control(ctx fx.ControlContext) error {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		ev, ok := mc.CurrentMessage().(Event)
		if !ok {
			return
		}
		mc.MessageTaken()
		if err := p.Publish(ev); err != nil {
			glog.Warningf("telemetry publish %T: %v", ev, err)
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, fx.NamedControl("telemetry", p))
	loop.AddRunnable(fx.NamedRun("telemetry", p))
}

// Run implements Runnable. A broker failure is logged and never
// stops the node.
func (p *Publisher) Run(ctx context.Context) error {
	if err := p.Broker.ConnectWait(ctx); err != nil && ctx.Err() == nil {
		glog.Warningf("telemetry disabled: %v", err)
	}
	<-ctx.Done()
	if p.Broker.Client.IsConnected() {
		p.Broker.PublishMeta(p.Meta.NodeID, nil).WaitTimeout(time.Second)
	}
	p.Broker.Close()
	return ctx.Err()
}

func (p *Publisher) onConnected() {
	p.Broker.PublishMeta(p.Meta.NodeID, p.metaJSON)
}
