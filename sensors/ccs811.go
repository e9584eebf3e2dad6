package sensors

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ccs811"
)

const (
	ccsStatusError     = 0x01
	ccsStatusDataReady = 0x08

	// DefaultCCS811Addr is the sensor address with ADDR pulled low.
	DefaultCCS811Addr = 0x5A
)

// ccsDevice is the subset of *ccs811.Dev used here.
type ccsDevice interface {
	Sense(values *ccs811.SensorValues) error
	ReadStatus() (byte, error)
	SetEnvironmentData(temp, humidity float32) error
}

type CCS811 struct {
	dev   ccsDevice
	bus   i2c.BusCloser
	ready bool
}

// NewCCS811 binds a CCS811 on bus at addr. Call WaitReady before the first Read.
func NewCCS811(bus i2c.BusCloser, addr uint16) (*CCS811, error) {
	opts := ccs811.DefaultOpts
	if addr != 0 {
		opts.Addr = addr
	}
	dev, err := ccs811.New(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: ccs811 at 0x%02X: %v", ErrDriverLoad, opts.Addr, err)
	}
	return &CCS811{dev: dev, bus: bus}, nil
}

// WaitReady polls the status register until the first sample is available.
func (c *CCS811) WaitReady(attempts int, interval time.Duration) error {
	for i := 0; i < attempts; i++ {
		st, err := c.dev.ReadStatus()
		if err != nil {
			return fmt.Errorf("%w: ccs811 status: %v", ErrRead, err)
		}
		if st&ccsStatusDataReady != 0 {
			c.ready = true
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("%w: ccs811 after %d polls", ErrNotReady, attempts)
}

func (c *CCS811) Name() string {
	return "ccs811"
}

func (c *CCS811) Read() (*SensorData, error) {
	if !c.ready {
		return nil, fmt.Errorf("%w: ccs811", ErrNotReady)
	}
	var v ccs811.SensorValues
	if err := c.dev.Sense(&v); err != nil {
		return nil, fmt.Errorf("%w: ccs811: %v", ErrRead, err)
	}
	if v.Status&ccsStatusError != 0 {
		return nil, fmt.Errorf("%w: ccs811 status 0x%02X", ErrRead, v.Status)
	}

	return &SensorData{
		SensorType: "ccs811",
		Fields: map[string]float64{
			FieldECO2: float64(v.ECO2),
			FieldTVOC: float64(v.VOC),
		},
		Timestamp: time.Now(),
	}, nil
}

// SetEnvironment feeds ambient conditions to the on-chip compensation.
func (c *CCS811) SetEnvironment(temperature, humidity float64) error {
	return c.dev.SetEnvironmentData(float32(temperature), float32(humidity))
}

func (c *CCS811) Close() error {
	if c.bus == nil {
		return nil
	}
	return c.bus.Close()
}
