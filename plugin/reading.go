package plugin

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Uranury/dhtplug/sensors"
)

// MaxHumidity is the exclusive upper bound for an accepted humidity value.
const MaxHumidity = 101

// Reading is the last accepted measurement, re-reported when a poll fails.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2         float64 `json:"co2"`
}

// InitialReading seeds LastGood before the first successful poll.
var InitialReading = Reading{Temperature: 20, Humidity: 30, CO2: 800}

func (r Reading) String() string {
	return fmt.Sprintf("temp=%.1f humi=%.0f co2=%.0f", r.Temperature, r.Humidity, r.CO2)
}

type HumidityStatus int

const (
	HumidityNormal HumidityStatus = iota
	HumidityDry
	HumidityHumid
)

func HumidityStatusOf(h float64) HumidityStatus {
	switch {
	case h <= 25:
		return HumidityDry
	case h <= 60:
		return HumidityNormal
	}
	return HumidityHumid
}

func (s HumidityStatus) String() string {
	switch s {
	case HumidityDry:
		return "dry"
	case HumidityHumid:
		return "humid"
	}
	return "normal"
}

// Code is the Domoticz HUM_STAT value: 0 normal, 2 dry, 3 wet.
func (s HumidityStatus) Code() int {
	switch s {
	case HumidityDry:
		return 2
	case HumidityHumid:
		return 3
	}
	return 0
}

// ClimateSample extracts temperature and humidity from d.
// ok is false unless both are present and humidity is within 0..MaxHumidity.
func ClimateSample(d *sensors.SensorData) (temp, humi float64, ok bool) {
	humi, hok := d.Value(sensors.FieldHumidity)
	if !hok || math.IsNaN(humi) || humi < 0 || humi >= MaxHumidity {
		return 0, 0, false
	}
	temp, tok := d.Value(sensors.FieldTemperature)
	if !tok || math.IsNaN(temp) || math.IsInf(temp, 0) {
		return 0, 0, false
	}
	return temp, humi, true
}

// CO2Sample extracts the eCO2 value from d.
func CO2Sample(d *sensors.SensorData) (float64, bool) {
	v, ok := d.Value(sensors.FieldECO2)
	if !ok || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// TempHumValue renders the sValue of a Temp+Hum device: TEMP;HUM;HUM_STAT.
func TempHumValue(r Reading) string {
	return strconv.FormatFloat(r.Temperature, 'f', 1, 64) + ";" +
		strconv.FormatFloat(r.Humidity, 'f', 0, 64) + ";" +
		strconv.Itoa(HumidityStatusOf(r.Humidity).Code())
}
