package host

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSensorType(t *testing.T) {
	cases := map[string]SensorType{"11": DHT11, "dht22": DHT22, "AM2302": DHT22}
	for in, want := range cases {
		got, err := ParseSensorType(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v err %v", in, got, err)
		}
	}
	if _, err := ParseSensorType("33"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseDebugMode(t *testing.T) {
	if m, _ := ParseDebugMode("Debug"); m != DebugOn {
		t.Fatal("Debug not parsed")
	}
	if m, _ := ParseDebugMode(""); m != DebugNormal {
		t.Fatal("empty should be Normal")
	}
	if _, err := ParseDebugMode("loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParametersDumpSkipsEmpty(t *testing.T) {
	p := Parameters{Variant: "dht", GPIOPin: 22, SensorType: DHT22}
	out := strings.Join(p.Dump(), "\n")
	if !strings.Contains(out, "'GPIOPin':'22'") {
		t.Fatalf("dump: %s", out)
	}
	if strings.Contains(out, "I2CBus") {
		t.Fatalf("empty I2CBus dumped: %s", out)
	}
}
