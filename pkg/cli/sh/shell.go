// Package sh provides an ishell console to exercise the Tile protocol
// on the bench: encode and parse lines offline, or talk to a modem.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/robotalks/tile.go/pkg/serial"
	"github.com/robotalks/tile.go/pkg/tile"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Device      string
	Baud        int

	Shell *ishell.Shell

	conn     io.ReadWriteCloser
	connName string
	reader   *tile.Reader
	writer   *tile.Writer
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
	readWait     = 100 * time.Millisecond
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	device     = "/dev/serial0"
	baud       = serial.DefaultBaud

	// commands
	commands = []*ishell.Cmd{
		&EncodeCmd,
		&DataCmd,
		&ParseCmd,
		&LinkCmd,
		&OpenCmd,
		&SendCmd,
		&ReadCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&device, "serial", device, "Tile serial device for open.")
	flag.IntVar(&baud, "baud", baud, "Tile serial baud rate.")
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Device:      device,
		Baud:        baud,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open port.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).conn == nil {
			c.Err(fmt.Errorf("port not open"))
			return
		}
		fn(c)
	}
}

// Print prints v as JSON or with its String form.
func (s *Shell) Print(c *ishell.Context, v fmt.Stringer) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v.String())
}

// Attach uses conn as the modem port.
func (s *Shell) Attach(conn io.ReadWriteCloser, name string) {
	s.Close()
	s.conn, s.connName = conn, name
	s.reader, s.writer = tile.NewReader(conn), tile.NewWriter(conn)
	s.setPrompt(fmt.Sprintf("%s > ", name))
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Open opens the serial device.
func (s *Shell) Open(dev string, baud int) error {
	port, err := serial.Open(dev, baud)
	if err != nil {
		return err
	}
	s.Attach(port, port.Path())
	return nil
}

// Close closes the port if open.
func (s *Shell) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn, s.reader, s.writer = nil, nil, nil
	s.setPrompt(closedPrompt)
	return err
}

// Send frames and writes a command.
func (s *Shell) Send(cmd []byte) (tile.Frame, error) {
	if s.writer == nil {
		return tile.Frame{}, errors.New("port not open")
	}
	if len(cmd) == 0 {
		return tile.Frame{}, errors.NotValidf("empty command")
	}
	return s.writer.WriteCommand(cmd)
}

// Read performs up to n reads, waiting between empty ones,
// and returns the lines received.
func (s *Shell) Read(n int, wait time.Duration) ([]tile.Line, error) {
	if s.reader == nil {
		return nil, errors.New("port not open")
	}
	var lines []tile.Line
	for i := 0; i < n; i++ {
		line, err := s.reader.ReadLine()
		if err != nil {
			return lines, err
		}
		if line == "" {
			if i+1 < n {
				time.Sleep(wait)
			}
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

// joinArgs rebuilds a command split by the shell.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
