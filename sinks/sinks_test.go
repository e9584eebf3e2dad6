package sinks

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/plugin"
)

type fakeToken struct {
	done bool
	err  error
}

func (t *fakeToken) Wait() bool { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
func (t *fakeToken) Error() error { return t.err }

type fakePublisher struct {
	topic    string
	payloads [][]byte
	token    *fakeToken
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.topic = topic
	f.payloads = append(f.payloads, payload.([]byte))
	return f.token
}

func TestMQTTPublishDomoticzPayload(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: true}}
	m := newMQTT(pub, "domoticz/in")

	d := host.Device{Unit: 1, ID: 42, NValue: 0, SValue: "21.5;40;0", BatteryLevel: 100}
	if err := m.Publish(d); err != nil {
		t.Fatal(err)
	}
	if pub.topic != "domoticz/in" || len(pub.payloads) != 1 {
		t.Fatalf("topic %q payloads %d", pub.topic, len(pub.payloads))
	}
	var msg map[string]interface{}
	if err := json.Unmarshal(pub.payloads[0], &msg); err != nil {
		t.Fatal(err)
	}
	if msg["idx"] != float64(42) || msg["svalue"] != "21.5;40;0" || msg["Battery"] != float64(100) {
		t.Fatalf("payload %v", msg)
	}
}

func TestMQTTSkipsDeviceWithoutIdx(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: true}}
	m := newMQTT(pub, "domoticz/in")
	if err := m.Publish(host.Device{Unit: 2}); err != nil || len(pub.payloads) != 0 {
		t.Fatalf("err=%v payloads=%d", err, len(pub.payloads))
	}
}

func TestMQTTPublishErrors(t *testing.T) {
	m := newMQTT(&fakePublisher{token: &fakeToken{done: false}}, "t")
	if err := m.Publish(host.Device{Unit: 1, ID: 1}); !errors.Is(err, ErrPublishTimeout) {
		t.Fatalf("err=%v want timeout", err)
	}
	boom := errors.New("not connected")
	m = newMQTT(&fakePublisher{token: &fakeToken{done: true, err: boom}}, "t")
	if err := m.Publish(host.Device{Unit: 1, ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}

type fakeWriter struct{ lines []string }

func (f *fakeWriter) WritePoint(p *write.Point) {
	f.lines = append(f.lines, write.PointToLineProtocol(p, time.Second))
}

func TestInfluxTempHumFields(t *testing.T) {
	w := &fakeWriter{}
	i := &Influx{writer: w}
	err := i.Publish(host.Device{
		Unit: 1, Name: "Adafruit DHT", TypeName: plugin.TypeTempHum,
		SValue: "21.5;70;3", LastUpdate: time.Unix(1700000000, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	line := w.lines[0]
	for _, want := range []string{"sensor_data,", "temperature=21.5", "humidity=70", "humidity_status=3", "unit=1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestDeviceFieldsFallback(t *testing.T) {
	f := deviceFields(host.Device{TypeName: "Switch", NValue: 1, SValue: "On"})
	if f["svalue"] != "On" || f["nvalue"] != 1 {
		t.Fatalf("fields %v", f)
	}
	f = deviceFields(host.Device{TypeName: plugin.TypeAirQuality, NValue: 612})
	if f["co2"] != 612 {
		t.Fatalf("fields %v", f)
	}
}

func TestMQTTPublishesRegistryAssignedIdx(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: true}}
	reg := host.NewRegistry(newMQTT(pub, "domoticz/in"))
	reg.AssignIDs(map[int]int{plugin.UnitTempHum: 17})
	_ = reg.Create(host.Device{Unit: plugin.UnitTempHum, TypeName: plugin.TypeTempHum})

	if _, err := reg.Update(plugin.UnitTempHum, 0, "20.0;30;0", 100); err != nil {
		t.Fatal(err)
	}
	if len(pub.payloads) != 1 || !strings.Contains(string(pub.payloads[0]), `"idx":17`) {
		t.Fatalf("payloads %q", pub.payloads)
	}
}
