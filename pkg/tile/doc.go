// Package tile provides the Swarm Tile serial protocol support.
package tile

// The Tile protocol is line oriented ASCII exchanged between the node
// and the satellite modem over a serial port.
//
// Every line is "$XX body*HH\n" where $XX is the command leader and HH
// is the XOR of all bytes between the '$' and the '*', as two upper
// case hex digits.
//
// Producer: Tile modem (reports), node (commands)
// Consumer: node (reports), Tile modem (commands)
