// Package node runs the sensor node: it configures the modem, reacts to
// its reports and transmits sensor samples on schedule.
package node

import (
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	fx "github.com/robotalks/tile.go/pkg/framework"
	"github.com/robotalks/tile.go/pkg/indicator"
	"github.com/robotalks/tile.go/pkg/sampling"
	"github.com/robotalks/tile.go/pkg/sensor"
	"github.com/robotalks/tile.go/pkg/telemetry"
	"github.com/robotalks/tile.go/pkg/tile"
)

// Options are the validated runtime settings.
type Options struct {
	// Poll is the loop interval, one modem read per iteration.
	Poll time.Duration
	// Backoff is the delay after a transient sensor failure.
	Backoff time.Duration
	// SampleInterval is in modem epoch seconds.
	SampleInterval int64
}

// Default settings.
const (
	DefaultPoll    = time.Second
	DefaultBackoff = 2 * time.Second
)

// DefaultOptions returns the default settings.
func DefaultOptions() Options {
	return Options{
		Poll:           DefaultPoll,
		Backoff:        DefaultBackoff,
		SampleInterval: sampling.DefaultInterval,
	}
}

// Node bridges the sensor to the modem.
type Node struct {
	Options Options

	port     io.ReadWriter
	reader   *tile.Reader
	writer   *tile.Writer
	sensor   sensor.Sensor
	renderer indicator.Renderer

	scheduler *sampling.Scheduler
	schedule  sampling.State
	link      indicator.State
	rendered  indicator.State
	epoch     int64

	// wait blocks for the back-off delay.
	wait func(fx.ControlContext, time.Duration)
}

// New creates a Node.
func New(port io.ReadWriter, s sensor.Sensor, r indicator.Renderer, opts Options) *Node {
	return &Node{
		Options:   opts,
		port:      port,
		reader:    tile.NewReader(port),
		writer:    tile.NewWriter(port),
		sensor:    s,
		renderer:  r,
		scheduler: sampling.New(opts.SampleInterval),
		wait:      waitContext,
	}
}

// Link returns the current indicator state.
func (n *Node) Link() indicator.State {
	return n.link
}

// Schedule returns the scheduler state.
func (n *Node) Schedule() sampling.State {
	return n.schedule
}

// Start configures the report rates and discards the first read,
// which holds the modem's acknowledgements.
func (n *Node) Start() error {
	for _, f := range []tile.Frame{tile.ConfigureRSSI, tile.ConfigureTime} {
		if err := n.writer.WriteFrame(f); err != nil {
			return errors.Annotatef(err, "write %s", f)
		}
	}
	if _, err := n.reader.ReadLine(); err != nil {
		return errors.Annotate(err, "serial read")
	}
	glog.Info("tile node running")
	return nil
}

// AddToLoop implements LoopAdder.
func (n *Node) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.NamedControl("serial", fx.ControlFunc(n.sense)))
	loop.AddController(fx.PrLvControl, fx.NamedControl("parser", fx.ControlFunc(n.dispatch)))
	loop.AddController(fx.PrLvControl+1,
		fx.NamedControl("link", fx.ControlFunc(n.updateLink)),
		fx.NamedControl("scheduler", fx.ControlFunc(n.advanceSchedule)))
	loop.AddController(fx.PrLvAcuate,
		fx.NamedControl("indicator", fx.ControlFunc(n.render)),
		fx.NamedControl("sampler", fx.ControlFunc(n.sample)))
}

// Close releases the sensor, the indicator and the port.
func (n *Node) Close() error {
	var errs fx.AggregatedError
	errs.Add(n.sensor.Close())
	if c, ok := n.renderer.(io.Closer); ok {
		errs.Add(c.Close())
	}
	if c, ok := n.port.(io.Closer); ok {
		errs.Add(c.Close())
	}
	return errs.Aggregate()
}

func (n *Node) sense(ctx fx.ControlContext) error {
	line, err := n.reader.ReadLine()
	if err != nil {
		return errors.Annotate(err, "serial read")
	}
	if line == "" {
		return nil
	}
	if glog.V(2) {
		if err := tile.VerifyChecksum(line); err != nil {
			glog.Infof("checksum: %v", err)
		}
	}
	ctx.Messages().AddMessages(&LineMessage{Line: line})
	return nil
}

func (n *Node) dispatch(ctx fx.ControlContext) (err error) {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		lm, ok := mc.CurrentMessage().(*LineMessage)
		if !ok {
			return
		}
		mc.MessageTaken()
		msg, perr := tile.Parse(lm.Line)
		if perr != nil {
			err = errors.Trace(perr)
			mc.StopProcessing()
			return
		}
		switch m := msg.(type) {
		case *tile.SignalReport:
			mc.AddMessages(&SignalMessage{Report: m})
		case *tile.TimeReport:
			mc.AddMessages(&TimeMessage{Report: m})
		}
	}))
	return
}

func (n *Node) updateLink(ctx fx.ControlContext) error {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		sm, ok := mc.CurrentMessage().(*SignalMessage)
		if !ok {
			return
		}
		mc.MessageTaken()
		n.link = indicator.FromRSSI(sm.Report.RSSI)
		mc.AddMessages(&telemetry.LinkStatus{RSSI: sm.Report.RSSI, State: n.link.String(), Epoch: n.epoch})
	}))
	return nil
}

func (n *Node) advanceSchedule(ctx fx.ControlContext) error {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		tm, ok := mc.CurrentMessage().(*TimeMessage)
		if !ok {
			return
		}
		mc.MessageTaken()
		n.epoch = tm.Report.Epoch
		if n.scheduler.Advance(&n.schedule, tm.Report.Epoch) {
			mc.AddMessages(&SampleRequest{Epoch: tm.Report.Epoch})
		}
	}))
	return nil
}

func (n *Node) render(ctx fx.ControlContext) error {
	if n.link == n.rendered {
		return nil
	}
	if err := n.renderer.Render(n.link); err != nil {
		glog.Warningf("indicator %s: %v", n.link, err)
		return nil
	}
	n.rendered = n.link
	return nil
}

func waitContext(ctx fx.ControlContext, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Context().Done():
	}
}
