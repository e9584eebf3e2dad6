package plugin

import (
	"fmt"
	"strings"

	"github.com/Uranury/dhtplug/host"
)

type Variant int

const (
	// VariantDHT reports each DHT reading as read.
	VariantDHT Variant = iota
	// VariantDHTSmoothed reports the rolling average of DHT temperatures.
	VariantDHTSmoothed
	// VariantCCS811 adds a CCS811 eCO2 sensor to the smoothed DHT.
	VariantCCS811
)

const (
	UnitTempHum    = 1
	UnitAirQuality = 2

	TypeTempHum    = "Temp+Hum"
	TypeAirQuality = "Air Quality"
)

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dht":
		return VariantDHT, nil
	case "dht-smoothed", "smoothed":
		return VariantDHTSmoothed, nil
	case "ccs811", "co2":
		return VariantCCS811, nil
	}
	return 0, fmt.Errorf("%w: variant %q", host.ErrInvalidParameter, s)
}

func (v Variant) String() string {
	switch v {
	case VariantDHTSmoothed:
		return "dht-smoothed"
	case VariantCCS811:
		return "ccs811"
	}
	return "dht"
}

// DefaultWindowSize is the smoothing window used when none is configured.
const DefaultWindowSize = 20

func (v Variant) windowSize(configured int) int {
	if v == VariantDHT {
		return 1
	}
	if configured < 1 {
		return DefaultWindowSize
	}
	return configured
}

func (v Variant) devices() []host.Device {
	out := []host.Device{{Unit: UnitTempHum, Name: "Adafruit DHT", TypeName: TypeTempHum, Used: true}}
	if v == VariantCCS811 {
		out = append(out, host.Device{Unit: UnitAirQuality, Name: "Adafruit CCS811", TypeName: TypeAirQuality, Used: true})
	}
	return out
}
