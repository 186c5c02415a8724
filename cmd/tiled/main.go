package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"github.com/golang/glog"
	"github.com/juju/errors"

	fx "github.com/robotalks/tile.go/pkg/framework"
	"github.com/robotalks/tile.go/pkg/node"
)

func init() {
	node.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := run(); err != nil {
		glog.Error(errors.ErrorStack(err))
		glog.Flush()
		os.Exit(1)
	}
}

func run() error {
	conf, err := node.LoadConfig()
	if err != nil {
		return err
	}
	n, err := conf.Open()
	if err != nil {
		return err
	}
	defer n.Close()

	loop := fx.NewLoop()
	loop.Interval = n.Options.Poll
	loop.Add(n)
	pub, err := conf.NewPublisher()
	if err != nil {
		return err
	}
	if pub != nil {
		loop.Add(pub)
	}

	if err = n.Start(); err != nil {
		return err
	}
	sdnotify(daemon.SdNotifyReady)
	return fx.NewRunner().HandleSignals().Go(fx.NamedRun("loop", loop)).Wait()
}

func sdnotify(s string) {
	if _, err := daemon.SdNotify(false, s); err != nil {
		glog.Warningf("sdnotify: %v", err)
	}
}
