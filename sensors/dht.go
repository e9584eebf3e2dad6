package sensors

import (
	"fmt"
	"math"
	"time"

	"github.com/MichaelS11/go-dht"
)

type DHT struct {
	Pin     string
	Type    string // "dht11" or "dht22"
	Retries int
	Dht     *dht.DHT
}

// NewDHT opens a DHT sensor on the named GPIO pin (e.g. "GPIO22").
// dht.HostInit must have succeeded beforehand.
func NewDHT(pin, sensorType string, retries int) (*DHT, error) {
	if retries < 1 {
		retries = 1
	}
	d := &DHT{
		Pin:     pin,
		Type:    sensorType,
		Retries: retries,
	}

	var err error
	d.Dht, err = dht.NewDHT(pin, dht.Celsius, sensorType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s: %v", ErrDriverLoad, sensorType, pin, err)
	}

	return d, nil
}

func (d *DHT) Name() string {
	return d.Type
}

func (d *DHT) Read() (*SensorData, error) {
	humidity, temperature, err := d.Dht.ReadRetry(d.Retries)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, d.Type, err)
	}

	fields := make(map[string]float64, 2)
	if !math.IsNaN(temperature) {
		fields[FieldTemperature] = temperature
	}
	if !math.IsNaN(humidity) {
		fields[FieldHumidity] = humidity
	}

	return &SensorData{
		SensorType: d.Type,
		Fields:     fields,
		Timestamp:  time.Now(),
	}, nil
}

func (d *DHT) Close() error {
	return nil
}
