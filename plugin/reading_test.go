package plugin

import (
	"testing"

	"github.com/Uranury/dhtplug/sensors"
)

func TestHumidityStatusOf(t *testing.T) {
	cases := []struct {
		h    float64
		want HumidityStatus
	}{
		{70, HumidityHumid},
		{10, HumidityDry},
		{40, HumidityNormal},
		{25, HumidityDry},
		{60, HumidityNormal},
		{60.5, HumidityHumid},
	}
	for _, c := range cases {
		if got := HumidityStatusOf(c.h); got != c.want {
			t.Errorf("h=%v: got %s want %s", c.h, got, c.want)
		}
	}
}

func TestClimateSample(t *testing.T) {
	data := func(fields map[string]float64) *sensors.SensorData {
		return &sensors.SensorData{Fields: fields}
	}
	cases := []struct {
		name string
		d    *sensors.SensorData
		ok   bool
	}{
		{"valid", data(map[string]float64{"temperature": 21, "humidity": 45}), true},
		{"humidity 100", data(map[string]float64{"temperature": 21, "humidity": 100}), true},
		{"humidity 150", data(map[string]float64{"temperature": 21, "humidity": 150}), false},
		{"humidity 101", data(map[string]float64{"temperature": 21, "humidity": 101}), false},
		{"negative humidity", data(map[string]float64{"temperature": 21, "humidity": -1}), false},
		{"no temperature", data(map[string]float64{"humidity": 45}), false},
		{"no humidity", data(map[string]float64{"temperature": 21}), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		if _, _, ok := ClimateSample(c.d); ok != c.ok {
			t.Errorf("%s: ok=%v want %v", c.name, ok, c.ok)
		}
	}
}

func TestTempHumValue(t *testing.T) {
	got := TempHumValue(Reading{Temperature: 21.46, Humidity: 70.4})
	if got != "21.5;70;3" {
		t.Fatalf("got %q", got)
	}
	if got := TempHumValue(Reading{Temperature: -3, Humidity: 20}); got != "-3.0;20;2" {
		t.Fatalf("got %q", got)
	}
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{"": VariantDHT, "dht-smoothed": VariantDHTSmoothed, "CCS811": VariantCCS811} {
		if got, err := ParseVariant(in); err != nil || got != want {
			t.Errorf("%q: got %v err %v", in, got, err)
		}
	}
	if _, err := ParseVariant("bme280"); err == nil {
		t.Error("expected error")
	}
}
