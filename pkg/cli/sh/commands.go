package sh

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/tile.go/pkg/indicator"
	"github.com/robotalks/tile.go/pkg/sensor"
	"github.com/robotalks/tile.go/pkg/tile"
)

var (
	// EncodeCmd prints the framed command.
	EncodeCmd = ishell.Cmd{
		Name:    "encode",
		Aliases: []string{"e"},
		Help:    "COMMAND, e.g. encode $RT 5",
		Func: func(c *ishell.Context) {
			cmd, err := commandArg(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Print(c, NewFrameReport(tile.Encode(cmd)))
		},
	}

	// DataCmd prints the data frame of a reading.
	DataCmd = ishell.Cmd{
		Name: "data",
		Help: "TEMP HUM",
		Func: func(c *ishell.Context) {
			r, err := parseReading(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Print(c, NewFrameReport(tile.Encode(tile.DataCommand(r.Payload()))))
		},
	}

	// ParseCmd parses a line as received from the modem.
	ParseCmd = ishell.Cmd{
		Name:    "parse",
		Aliases: []string{"p"},
		Help:    "LINE, e.g. parse $RT RSSI=-92,3*1A",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			ShellFrom(c).Print(c, DescribeLine(tile.Line(joinArgs(c.Args)+"\n")))
		},
	}

	// LinkCmd maps an RSSI to the indicator state.
	LinkCmd = ishell.Cmd{
		Name: "link",
		Help: "RSSI(dBm)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("RSSI required"))
				return
			}
			val, err := strconv.ParseInt(c.Args[0], 10, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid RSSI: %v", err))
				return
			}
			rssi := int32(val)
			ShellFrom(c).Print(c, &LinkReport{RSSI: rssi, Link: indicator.FromRSSI(rssi).String()})
		},
	}

	// OpenCmd opens the modem port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[DEVICE [BAUD]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			dev, baud := s.Device, s.Baud
			if len(c.Args) > 0 {
				dev = c.Args[0]
			}
			if len(c.Args) > 1 {
				val, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("Invalid BAUD: %v", err))
					return
				}
				baud = val
			}
			if err := s.Open(dev, baud); err != nil {
				c.Err(err)
			}
		},
	}

	// SendCmd frames and writes a command.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "COMMAND, e.g. send $DT 10",
		Func: MustBeOpen(func(c *ishell.Context) {
			cmd, err := commandArg(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			f, err := s.Send(cmd)
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, NewFrameReport(f))
		}),
	}

	// ReadCmd reads and describes lines.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "[COUNT] reads, 100ms apart when idle",
		Func: MustBeOpen(func(c *ishell.Context) {
			count := 1
			if len(c.Args) > 0 {
				val, err := strconv.Atoi(c.Args[0])
				if err != nil || val <= 0 {
					c.Err(fmt.Errorf("Invalid COUNT: %s", c.Args[0]))
					return
				}
				count = val
			}
			s := ShellFrom(c)
			lines, err := s.Read(count, readWait)
			for _, line := range lines {
				s.Print(c, DescribeLine(line))
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// CloseCmd closes the modem port.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Close(); err != nil {
				c.Err(err)
			}
		},
	}
)

// commandArg joins args into a command, a quoted "" is no command.
func commandArg(args []string) ([]byte, error) {
	cmd := joinArgs(args)
	if cmd == "" {
		return nil, fmt.Errorf("COMMAND required")
	}
	return []byte(cmd), nil
}

func parseReading(args []string) (sensor.Reading, error) {
	var r sensor.Reading
	if len(args) < 2 {
		return r, fmt.Errorf("TEMP and HUM required")
	}
	var err error
	if r.Temperature, err = strconv.Atoi(args[0]); err != nil {
		return r, fmt.Errorf("Invalid TEMP: %v", err)
	}
	if r.Humidity, err = strconv.Atoi(args[1]); err != nil {
		return r, fmt.Errorf("Invalid HUM: %v", err)
	}
	return r, nil
}
