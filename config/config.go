// Package config reads runtime settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/sensors"
)

var ErrInvalid = errors.New("invalid_config")

type MQTT struct {
	Broker   string
	Topic    string
	ClientID string
}

type Influx struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Enabled reports whether enough settings are present to write points.
func (i Influx) Enabled() bool {
	return i.URL != "" && i.Bucket != ""
}

type Config struct {
	Params   host.Parameters
	HTTPAddr string
	MQTT     MQTT
	Influx   Influx
	// Domoticz idx per plugin unit, used when publishing to domoticz/in.
	DomoticzIdx map[int]int
}

// Load reads .env files (missing files are not an error) and then the
// process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: .env: %v", ErrInvalid, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using lookup for every key.
func FromEnv(lookup func(string) string) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		Params: host.Parameters{
			Variant:     e.str("PLUGIN_VARIANT", "dht"),
			GPIOPin:     e.int("GPIO_PIN", 22),
			WindowSize:  e.int("WINDOW_SIZE", 20),
			ReadRetries: e.int("READ_RETRIES", 11),
			Heartbeat:   e.duration("HEARTBEAT", host.DefaultHeartbeat),
			Simulate:    e.bool("SIMULATE", false),
			I2CBus:      e.str("I2C_BUS", ""),
		},
		HTTPAddr: e.str("HTTP_ADDR", ":8080"),
		MQTT: MQTT{
			Broker:   e.str("MQTT_BROKER", ""),
			Topic:    e.str("MQTT_TOPIC", "domoticz/in"),
			ClientID: e.str("MQTT_CLIENT_ID", ""),
		},
		Influx: Influx{
			URL:    e.str("INFLUX_URL", ""),
			Token:  e.str("INFLUX_TOKEN", ""),
			Org:    e.str("INFLUX_ORG", ""),
			Bucket: e.str("INFLUX_BUCKET", ""),
		},
		DomoticzIdx: map[int]int{
			1: e.int("DOMOTICZ_IDX_TEMPHUM", 0),
			2: e.int("DOMOTICZ_IDX_AIRQUALITY", 0),
		},
	}

	if st, err := host.ParseSensorType(e.str("DHT_TYPE", "22")); err != nil {
		e.fail("DHT_TYPE", err)
	} else {
		cfg.Params.SensorType = st
	}
	if dm, err := host.ParseDebugMode(e.str("DEBUG_MODE", "Normal")); err != nil {
		e.fail("DEBUG_MODE", err)
	} else {
		cfg.Params.DebugMode = dm
	}
	if cfg.Params.GPIOPin < 0 {
		e.fail("GPIO_PIN", fmt.Errorf("must not be negative, got %d", cfg.Params.GPIOPin))
	}
	// I2C addresses are 7 bits wide.
	if addr := e.int("CCS811_ADDR", sensors.DefaultCCS811Addr); addr < 1 || addr > 0x7F {
		e.fail("CCS811_ADDR", fmt.Errorf("out of 7-bit range: 0x%X", addr))
	} else {
		cfg.Params.I2CAddr = uint16(addr)
	}
	if cfg.Params.WindowSize < 1 {
		e.fail("WINDOW_SIZE", fmt.Errorf("must be at least 1, got %d", cfg.Params.WindowSize))
	}
	if cfg.Params.Heartbeat <= 0 {
		e.fail("HEARTBEAT", fmt.Errorf("must be positive, got %s", cfg.Params.Heartbeat))
	}

	if e.err != nil {
		return Config{}, e.err
	}
	return cfg, nil
}

type env struct {
	lookup func(string) string
	err    error
}

func (e *env) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
}

func (e *env) str(key, def string) string {
	if v := e.lookup(key); v != "" {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v := e.lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return int(n)
}

func (e *env) bool(key string, def bool) bool {
	v := e.lookup(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return b
}

// duration accepts Go durations ("10s") or bare seconds ("10").
func (e *env) duration(key string, def time.Duration) time.Duration {
	v := e.lookup(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return d
}
