package host

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SensorType selects the DHT family member on the GPIO pin.
type SensorType int

const (
	DHT11 SensorType = 11
	DHT22 SensorType = 22 // also AM2302
)

func ParseSensorType(s string) (SensorType, error) {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "11", "DHT11":
		return DHT11, nil
	case "22", "DHT22", "AM2302", "AM2301":
		return DHT22, nil
	}
	return 0, fmt.Errorf("%w: sensor type %q", ErrInvalidParameter, s)
}

func (t SensorType) String() string {
	switch t {
	case DHT11:
		return "DHT11"
	case DHT22:
		return "DHT22/AM2302"
	}
	return "SensorType(" + strconv.Itoa(int(t)) + ")"
}

type DebugMode int

const (
	DebugNormal DebugMode = iota
	DebugOn
)

func ParseDebugMode(s string) (DebugMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "0", "false":
		return DebugNormal, nil
	case "debug", "1", "true":
		return DebugOn, nil
	}
	return 0, fmt.Errorf("%w: debug mode %q", ErrInvalidParameter, s)
}

func (m DebugMode) String() string {
	if m == DebugOn {
		return "Debug"
	}
	return "Normal"
}

// Parameters is the configuration bag the host hands to the plugin.
type Parameters struct {
	Variant     string
	GPIOPin     int
	SensorType  SensorType
	DebugMode   DebugMode
	WindowSize  int
	ReadRetries int
	I2CBus      string
	I2CAddr     uint16
	Simulate    bool
	Heartbeat   time.Duration
}

// Dump renders the non-empty parameters as 'key':'value' lines.
func (p Parameters) Dump() []string {
	kv := [][2]string{
		{"Variant", p.Variant},
		{"GPIOPin", strconv.Itoa(p.GPIOPin)},
		{"SensorType", p.SensorType.String()},
		{"DebugMode", p.DebugMode.String()},
		{"WindowSize", strconv.Itoa(p.WindowSize)},
		{"ReadRetries", strconv.Itoa(p.ReadRetries)},
		{"I2CBus", p.I2CBus},
		{"I2CAddr", fmt.Sprintf("0x%02X", p.I2CAddr)},
		{"Simulate", strconv.FormatBool(p.Simulate)},
		{"Heartbeat", p.Heartbeat.String()},
	}
	out := make([]string, 0, len(kv))
	for _, e := range kv {
		if e[1] == "" {
			continue
		}
		out = append(out, fmt.Sprintf("'%s':'%s'", e[0], e[1]))
	}
	return out
}
