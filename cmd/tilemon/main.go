package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/tile.go/pkg/framework"
	"github.com/robotalks/tile.go/pkg/node"
	"github.com/robotalks/tile.go/pkg/telemetry"
)

var (
	mqttURL    = "mqtt://localhost:1883/tile/"
	outputJSON bool
)

func init() {
	if val := os.Getenv(node.MQTTURLEnv); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print events in JSON.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	b, err := telemetry.DialBroker(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	b.Watch(func(node, topic string, payload []byte) {
		out, err := telemetry.Format(node, topic, payload, outputJSON)
		if err != nil {
			log.Printf("%s/%s: bad message: %v", node, topic, err)
			return
		}
		log.Println(out)
	})

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("monitor", fx.RunFunc(func(ctx context.Context) error {
		if err := b.ConnectWait(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		b.Close()
		return ctx.Err()
	})))
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
