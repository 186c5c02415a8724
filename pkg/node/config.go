package node

import (
	"flag"
	"io/ioutil"
	"os"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/robotalks/tile.go/pkg/indicator"
	"github.com/robotalks/tile.go/pkg/sampling"
	"github.com/robotalks/tile.go/pkg/sensor"
	"github.com/robotalks/tile.go/pkg/serial"
	"github.com/robotalks/tile.go/pkg/telemetry"
)

// Config defines the configurations of the node.
type Config struct {
	Serial struct {
		Device string `hcl:"device"`
		Baud   int    `hcl:"baud"`
	} `hcl:"serial"`

	Sensor sensor.Config `hcl:"sensor"`

	// Indicator drives a bi-colour LED when Chip is set,
	// otherwise link quality is only logged.
	Indicator struct {
		Chip  string `hcl:"chip"`
		Red   int    `hcl:"red"`
		Green int    `hcl:"green"`
	} `hcl:"indicator"`

	Poll           string `hcl:"poll"`
	Backoff        string `hcl:"backoff"`
	SampleInterval int64  `hcl:"sample_interval"`

	// MQTTBrokerURL enables telemetry,
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `hcl:"mqtt"`
	NodeID        string `hcl:"node_id"`
}

// MQTTURLEnv overrides the default MQTT broker URL.
const MQTTURLEnv = "TILE_MQTT_URL"

var (
	defaultConfig = newDefaultConfig()
	configFile    string
)

func newDefaultConfig() Config {
	var c Config
	c.Serial.Device = "/dev/serial0"
	c.Serial.Baud = serial.DefaultBaud
	c.Sensor.Driver = sensor.DriverIIO
	c.Sensor.Device = "dht11"
	c.Indicator.Red = -1
	c.Indicator.Green = -1
	c.Poll = DefaultPoll.String()
	c.Backoff = DefaultBackoff.String()
	c.SampleInterval = sampling.DefaultInterval
	return c
}

func init() {
	if val := os.Getenv(MQTTURLEnv); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "HCL config file, values override flags.")
	flag.StringVar(&defaultConfig.Serial.Device, "serial", defaultConfig.Serial.Device, "Tile serial device.")
	flag.IntVar(&defaultConfig.Serial.Baud, "baud", defaultConfig.Serial.Baud, "Tile serial baud rate.")
	flag.StringVar(&defaultConfig.Sensor.Driver, "sensor", defaultConfig.Sensor.Driver, "Sensor driver: iio, bme280, sim.")
	flag.StringVar(&defaultConfig.Sensor.Device, "sensor-device", defaultConfig.Sensor.Device, "IIO device directory or driver name.")
	flag.StringVar(&defaultConfig.Sensor.Bus, "i2c-bus", defaultConfig.Sensor.Bus, "I2C bus of bme280, empty for the first bus.")
	flag.IntVar(&defaultConfig.Sensor.Addr, "i2c-addr", defaultConfig.Sensor.Addr, "I2C address of bme280, 0 for default.")
	flag.StringVar(&defaultConfig.Indicator.Chip, "led-chip", defaultConfig.Indicator.Chip, "GPIO chip of the LED, e.g. /dev/gpiochip0.")
	flag.IntVar(&defaultConfig.Indicator.Red, "led-red", defaultConfig.Indicator.Red, "GPIO line of the red LED.")
	flag.IntVar(&defaultConfig.Indicator.Green, "led-green", defaultConfig.Indicator.Green, "GPIO line of the green LED.")
	flag.StringVar(&defaultConfig.Poll, "poll", defaultConfig.Poll, "Serial poll interval.")
	flag.StringVar(&defaultConfig.Backoff, "backoff", defaultConfig.Backoff, "Delay after a transient sensor failure.")
	flag.Int64Var(&defaultConfig.SampleInterval, "sample-interval", defaultConfig.SampleInterval, "Sample interval in modem epoch seconds.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for telemetry, empty to disable.")
	flag.StringVar(&defaultConfig.NodeID, "id", defaultConfig.NodeID, "Node ID, derived from machine ID if empty.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadConfig creates a config with defaults and applies the file
// given by -config.
func LoadConfig() (*Config, error) {
	conf := NewConfig()
	if configFile == "" {
		return conf, nil
	}
	return conf, conf.Load(configFile)
}

// Load applies an HCL file on top of c.
func (c *Config) Load(path string) error {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Annotatef(err, "config read %s", path)
	}
	return c.Parse(content)
}

// Parse applies HCL content on top of c.
func (c *Config) Parse(content []byte) error {
	if err := hcl.Unmarshal(content, c); err != nil {
		return errors.Annotate(err, "config unmarshal")
	}
	return nil
}

// Options validates and returns the runtime settings.
func (c *Config) Options() (Options, error) {
	var opts Options
	var err error
	if opts.Poll, err = parseDuration("poll", c.Poll); err != nil {
		return opts, err
	}
	if opts.Backoff, err = parseDuration("backoff", c.Backoff); err != nil {
		return opts, err
	}
	if c.SampleInterval <= 0 {
		return opts, errors.NotValidf("sample interval %d", c.SampleInterval)
	}
	opts.SampleInterval = c.SampleInterval
	return opts, nil
}

func parseDuration(name, val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.Annotatef(err, "config %s", name)
	}
	if d <= 0 {
		return 0, errors.NotValidf("%s %s", name, val)
	}
	return d, nil
}

// Open opens the devices and creates the Node.
func (c *Config) Open() (*Node, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	renderer, err := c.openIndicator()
	if err != nil {
		return nil, err
	}
	s, err := sensor.Open(c.Sensor)
	if err != nil {
		closeRenderer(renderer)
		return nil, errors.Annotatef(err, "sensor %s", c.Sensor.Driver)
	}
	port, err := serial.Open(c.Serial.Device, c.Serial.Baud)
	if err != nil {
		s.Close()
		closeRenderer(renderer)
		return nil, err
	}
	return New(port, s, renderer, opts), nil
}

func (c *Config) openIndicator() (indicator.Renderer, error) {
	if c.Indicator.Chip == "" {
		return &indicator.LogRenderer{}, nil
	}
	if c.Indicator.Red < 0 || c.Indicator.Green < 0 {
		return nil, errors.NotValidf("indicator lines red=%d green=%d", c.Indicator.Red, c.Indicator.Green)
	}
	return indicator.OpenGPIO(c.Indicator.Chip, uint32(c.Indicator.Red), uint32(c.Indicator.Green))
}

func closeRenderer(r indicator.Renderer) {
	if g, ok := r.(*indicator.GPIO); ok {
		g.Close()
	}
}

// Meta describes the node for telemetry.
func (c *Config) Meta(nodeID string) telemetry.Meta {
	return telemetry.Meta{
		NodeID:    nodeID,
		Serial:    c.Serial.Device,
		Sensor:    c.Sensor.Driver,
		Indicator: c.Indicator.Chip,
		Interval:  c.SampleInterval,
	}
}

// NewPublisher creates the telemetry publisher, nil when disabled.
func (c *Config) NewPublisher() (*telemetry.Publisher, error) {
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	id := c.NodeID
	if id == "" {
		var err error
		if id, err = telemetry.NodeID(); err != nil {
			return nil, err
		}
	}
	return telemetry.NewPublisher(c.MQTTBrokerURL, c.Meta(id))
}
