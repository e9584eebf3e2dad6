package sensors

import (
	"fmt"
	"time"

	"github.com/MichaelS11/go-dht"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type Kind string

const (
	KindDHT    Kind = "dht"
	KindCCS811 Kind = "ccs811"
)

type Config struct {
	Kind     Kind
	GPIOPin  int
	DHTType  string // "dht11" or "dht22"
	Retries  int
	I2CBus   string // "" selects the first bus
	I2CAddr  uint16
	Simulate bool

	// Data-ready polling for sensors that need it before first use.
	ReadyAttempts int
	ReadyInterval time.Duration
}

// Capability is the outcome of opening a sensor. Ready is false when the
// driver could not be loaded; Err says why.
type Capability struct {
	Driver string
	Ready  bool
	Err    error
}

func (c Capability) String() string {
	if c.Ready {
		return c.Driver + ": ready"
	}
	return fmt.Sprintf("%s: unavailable (%v)", c.Driver, c.Err)
}

// Open initialises the driver for cfg. The returned Sensor is nil unless
// the capability is ready.
func Open(cfg Config) (Sensor, Capability) {
	switch cfg.Kind {
	case KindDHT:
		return openDHT(cfg)
	case KindCCS811:
		return openCCS811(cfg)
	}
	return nil, Capability{Driver: string(cfg.Kind), Err: fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)}
}

func openDHT(cfg Config) (Sensor, Capability) {
	capab := Capability{Driver: cfg.DHTType}
	if cfg.Simulate {
		capab.Ready = true
		return &Simulated{Kind: string(KindDHT)}, capab
	}
	if err := dht.HostInit(); err != nil {
		capab.Err = fmt.Errorf("%w: gpio host: %v", ErrDriverLoad, err)
		return nil, capab
	}
	s, err := NewDHT(fmt.Sprintf("GPIO%d", cfg.GPIOPin), cfg.DHTType, cfg.Retries)
	if err != nil {
		capab.Err = err
		return nil, capab
	}
	capab.Ready = true
	return s, capab
}

func openCCS811(cfg Config) (Sensor, Capability) {
	capab := Capability{Driver: string(KindCCS811)}
	if cfg.Simulate {
		capab.Ready = true
		return &Simulated{Kind: string(KindCCS811)}, capab
	}
	if _, err := host.Init(); err != nil {
		capab.Err = fmt.Errorf("%w: periph host: %v", ErrDriverLoad, err)
		return nil, capab
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		capab.Err = fmt.Errorf("%w: i2c bus %q: %v", ErrDriverLoad, cfg.I2CBus, err)
		return nil, capab
	}
	s, err := NewCCS811(bus, cfg.I2CAddr)
	if err != nil {
		bus.Close()
		capab.Err = err
		return nil, capab
	}

	attempts, interval := cfg.ReadyAttempts, cfg.ReadyInterval
	if attempts <= 0 {
		attempts = 40
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if err := s.WaitReady(attempts, interval); err != nil {
		s.Close()
		capab.Err = err
		return nil, capab
	}
	capab.Ready = true
	return s, capab
}
