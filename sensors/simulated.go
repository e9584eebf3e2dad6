package sensors

import (
	"math/rand"
	"time"
)

// Simulated produces plausible random readings for hosts without the hardware.
type Simulated struct {
	Kind string
}

func (s *Simulated) Name() string {
	return "simulated-" + s.Kind
}

func (s *Simulated) Read() (*SensorData, error) {
	fields := map[string]float64{}
	switch s.Kind {
	case "ccs811":
		fields[FieldECO2] = 400.0 + rand.Float64()*800.0
		fields[FieldTVOC] = rand.Float64() * 120.0
	default:
		fields[FieldTemperature] = 20.0 + rand.Float64()*10.0
		fields[FieldHumidity] = 40.0 + rand.Float64()*40.0
	}

	return &SensorData{
		SensorType: s.Name(),
		Fields:     fields,
		Timestamp:  time.Now(),
	}, nil
}

func (s *Simulated) Close() error { return nil }
