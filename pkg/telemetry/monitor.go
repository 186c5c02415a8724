package telemetry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Format renders a payload received from node on topic for display.
// Meta payloads are JSON, an empty meta means the node went away.
func Format(node, topic string, payload []byte, asJSON bool) (string, error) {
	topic = node + "/" + topic
	if strings.HasSuffix(topic, "/"+MetaTopic) {
		if len(payload) == 0 {
			return fmt.Sprintf("%s: offline", topic), nil
		}
		return fmt.Sprintf("%s: %s", topic, string(payload)), nil
	}
	ev, err := Decode(payload)
	if err != nil {
		return "", err
	}
	name := reflect.Indirect(reflect.ValueOf(ev)).Type().Name()
	if asJSON {
		out, err := json.Marshal(ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: [%s] %s", topic, name, string(out)), nil
	}
	return fmt.Sprintf("%s: [%s] %s", topic, name, ev.String()), nil
}
