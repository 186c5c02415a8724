package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/juju/errors"
)

const (
	nodeIDApp = "tile-node"
	nodeIDLen = 16
)

// NodeID derives a stable node ID from the machine ID without
// exposing the machine ID itself.
func NodeID() (string, error) {
	id, err := machineid.ProtectedID(nodeIDApp)
	if err != nil {
		return "", errors.Annotate(err, "machine id")
	}
	if len(id) > nodeIDLen {
		id = id[:nodeIDLen]
	}
	return id, nil
}
