package sensors

import "time"

// Field names used in SensorData.Fields.
const (
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldECO2        = "eco2"
	FieldTVOC        = "tvoc"
)

// SensorData is one poll result. A field missing from Fields was not measured.
type SensorData struct {
	SensorType string             `json:"sensor_type"`
	Fields     map[string]float64 `json:"fields"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Value returns the named field and whether it is present.
func (d *SensorData) Value(field string) (float64, bool) {
	if d == nil {
		return 0, false
	}
	v, ok := d.Fields[field]
	return v, ok
}

// Sensor interface that all sensors must implement
type Sensor interface {
	Read() (*SensorData, error)
	Name() string
	Close() error
}

// EnvCompensator is implemented by sensors that correct their readings for
// ambient temperature and humidity.
type EnvCompensator interface {
	SetEnvironment(temperature, humidity float64) error
}
