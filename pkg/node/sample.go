package node

import (
	"github.com/golang/glog"
	"github.com/juju/errors"

	fx "github.com/robotalks/tile.go/pkg/framework"
	"github.com/robotalks/tile.go/pkg/sensor"
	"github.com/robotalks/tile.go/pkg/telemetry"
	"github.com/robotalks/tile.go/pkg/tile"
)

func (n *Node) sample(ctx fx.ControlContext) (err error) {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		req, ok := mc.CurrentMessage().(*SampleRequest)
		if !ok {
			return
		}
		mc.MessageTaken()
		if err = n.sampleOnce(ctx, mc, req.Epoch); err != nil {
			mc.StopProcessing()
		}
	}))
	return
}

// sampleOnce reads the sensor and transmits one data frame.
// A transient failure only skips this cycle.
func (n *Node) sampleOnce(ctx fx.ControlContext, out fx.MessageAppender, epoch int64) error {
	r, err := n.sensor.Read()
	if err != nil {
		kind := sensor.KindOf(err)
		out.AddMessages(&telemetry.SampleError{Epoch: epoch, Kind: kind.String(), Message: err.Error()})
		if kind == sensor.Transient {
			glog.Warningf("sensor read: %v", err)
			n.wait(ctx, n.Options.Backoff)
			return nil
		}
		if cerr := n.sensor.Close(); cerr != nil {
			glog.Errorf("sensor close: %v", cerr)
		}
		return errors.Annotate(err, "sensor read")
	}
	f, err := n.writer.WriteCommand(tile.DataCommand(r.Payload()))
	if err != nil {
		return errors.Annotate(err, "serial write")
	}
	glog.Infof("sample epoch=%d %s", epoch, r.Payload())
	out.AddMessages(&telemetry.Sample{
		Epoch:       epoch,
		Temperature: int32(r.Temperature),
		Humidity:    int32(r.Humidity),
		Frame:       f.String(),
	})
	return nil
}
