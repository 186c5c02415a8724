// Package telemetry mirrors node events to an MQTT broker.
//
// Topics are relative to the prefix in the broker URL:
//
//   <node-id>/meta    retained JSON metadata, cleared on disconnect
//   <node-id>/link    LinkStatus on every signal report
//   <node-id>/sample  Sample on every transmitted data frame
//
// Event payloads are Typed protobuf messages.
//
// Producer: tiled
// Consumer: tilemon or any MQTT client
package telemetry
