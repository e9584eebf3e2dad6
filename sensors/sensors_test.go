package sensors

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/devices/v3/ccs811"
)

type fakeCCS struct {
	statuses []byte
	values   ccs811.SensorValues
	senseErr error
	envT     float32
	envH     float32
}

func (f *fakeCCS) ReadStatus() (byte, error) {
	if len(f.statuses) == 0 {
		return 0, nil
	}
	st := f.statuses[0]
	f.statuses = f.statuses[1:]
	return st, nil
}

func (f *fakeCCS) Sense(v *ccs811.SensorValues) error {
	if f.senseErr != nil {
		return f.senseErr
	}
	*v = f.values
	return nil
}

func (f *fakeCCS) SetEnvironmentData(t, h float32) error {
	f.envT, f.envH = t, h
	return nil
}

func TestCCS811WaitReadyThenRead(t *testing.T) {
	dev := &fakeCCS{
		statuses: []byte{0x10, 0x10, 0x98},
		values:   ccs811.SensorValues{ECO2: 612, VOC: 31, Status: 0x98},
	}
	c := &CCS811{dev: dev}

	if _, err := c.Read(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("read before ready err=%v", err)
	}
	if err := c.WaitReady(5, time.Microsecond); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	d, err := c.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := d.Value(FieldECO2); !ok || v != 612 {
		t.Fatalf("eco2=%v ok=%v", v, ok)
	}
	if _, ok := d.Value(FieldTemperature); ok {
		t.Fatal("ccs811 must not report temperature")
	}
}

func TestCCS811WaitReadyGivesUp(t *testing.T) {
	c := &CCS811{dev: &fakeCCS{statuses: []byte{0x10, 0x10}}}
	if err := c.WaitReady(2, time.Microsecond); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err=%v want ErrNotReady", err)
	}
}

func TestCCS811ErrorStatus(t *testing.T) {
	c := &CCS811{dev: &fakeCCS{values: ccs811.SensorValues{Status: 0x99}}, ready: true}
	if _, err := c.Read(); !errors.Is(err, ErrRead) {
		t.Fatalf("err=%v want ErrRead", err)
	}
	c = &CCS811{dev: &fakeCCS{senseErr: errors.New("nack")}, ready: true}
	if _, err := c.Read(); !errors.Is(err, ErrRead) {
		t.Fatalf("err=%v want ErrRead", err)
	}
}

func TestCCS811SetEnvironment(t *testing.T) {
	dev := &fakeCCS{}
	c := &CCS811{dev: dev}
	if err := c.SetEnvironment(21.5, 44); err != nil {
		t.Fatal(err)
	}
	if dev.envT != 21.5 || dev.envH != 44 {
		t.Fatalf("env=%v/%v", dev.envT, dev.envH)
	}
}

func TestSimulatedRanges(t *testing.T) {
	s := &Simulated{Kind: "dht"}
	for i := 0; i < 50; i++ {
		d, _ := s.Read()
		h, _ := d.Value(FieldHumidity)
		tc, _ := d.Value(FieldTemperature)
		if h < 40 || h > 80 || tc < 20 || tc > 30 {
			t.Fatalf("out of range: %+v", d.Fields)
		}
	}
}

func TestOpen(t *testing.T) {
	if s, c := Open(Config{Kind: "bogus"}); s != nil || c.Ready || !errors.Is(c.Err, ErrUnknownKind) {
		t.Fatalf("bogus kind: %v %v", s, c)
	}
	s, c := Open(Config{Kind: KindCCS811, Simulate: true})
	if s == nil || !c.Ready {
		t.Fatalf("simulated ccs811 not ready: %v", c)
	}
}

func TestSensorDataValueNil(t *testing.T) {
	var d *SensorData
	if _, ok := d.Value(FieldHumidity); ok {
		t.Fatal("nil data reported a value")
	}
}
