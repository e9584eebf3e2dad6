package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Uranury/dhtplug/host"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Params
	if p.GPIOPin != 22 || p.SensorType != host.DHT22 || p.DebugMode != host.DebugNormal {
		t.Fatalf("params %+v", p)
	}
	if p.WindowSize != 20 || p.Heartbeat != 10*time.Second || p.I2CAddr != 0x5A {
		t.Fatalf("params %+v", p)
	}
	if cfg.MQTT.Topic != "domoticz/in" || cfg.Influx.Enabled() {
		t.Fatalf("cfg %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"PLUGIN_VARIANT":       "ccs811",
		"GPIO_PIN":             "4",
		"DHT_TYPE":             "11",
		"DEBUG_MODE":           "Debug",
		"HEARTBEAT":            "30",
		"CCS811_ADDR":          "0x5B",
		"DOMOTICZ_IDX_TEMPHUM": "17",
		"INFLUX_URL":           "http://influx:8086",
		"INFLUX_BUCKET":        "sensors",
	}))
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Params
	if p.Variant != "ccs811" || p.GPIOPin != 4 || p.SensorType != host.DHT11 || p.DebugMode != host.DebugOn {
		t.Fatalf("params %+v", p)
	}
	if p.Heartbeat != 30*time.Second || p.I2CAddr != 0x5B {
		t.Fatalf("params %+v", p)
	}
	if cfg.DomoticzIdx[1] != 17 || !cfg.Influx.Enabled() {
		t.Fatalf("cfg %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	for _, m := range []map[string]string{
		{"GPIO_PIN": "twenty"},
		{"DHT_TYPE": "33"},
		{"DEBUG_MODE": "loud"},
		{"WINDOW_SIZE": "0"},
		{"HEARTBEAT": "soon"},
		{"SIMULATE": "maybe"},
		{"GPIO_PIN": "-4"},
		{"CCS811_ADDR": "70000"},
		{"CCS811_ADDR": "0x80"},
		{"CCS811_ADDR": "0"},
	} {
		if _, err := FromEnv(lookup(m)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%v: err=%v want ErrInvalid", m, err)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("WINDOW_SIZE=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("WINDOW_SIZE")
	t.Cleanup(func() { os.Unsetenv("WINDOW_SIZE") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.WindowSize != 7 {
		t.Fatalf("window %d", cfg.Params.WindowSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
}
