// Package plugin polls a DHT (and optionally a CCS811) sensor on every
// heartbeat and reports the smoothed reading to the host device registry.
package plugin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/sensors"
	"github.com/Uranury/dhtplug/window"
)

const batteryLevel = 100

// Opener initialises a sensor driver. sensors.Open is the default.
type Opener func(sensors.Config) (sensors.Sensor, sensors.Capability)

// Plugin implements host.Plugin[*State]. It holds no per-run state.
type Plugin struct {
	open Opener
}

var _ host.Plugin[*State] = (*Plugin)(nil)

func New(open Opener) *Plugin {
	if open == nil {
		open = sensors.Open
	}
	return &Plugin{open: open}
}

// State is built by OnStart and threaded through every later callback.
type State struct {
	Variant  Variant
	Window   *window.Window
	LastGood Reading

	Climate    sensors.Sensor
	ClimateCap sensors.Capability
	Air        sensors.Sensor
	AirCap     sensors.Capability
}

// Accept validates a climate sample and, if it passes, folds it into the
// window and LastGood. A rejected sample leaves LastGood untouched.
func (s *State) Accept(d *sensors.SensorData) bool {
	temp, humi, ok := ClimateSample(d)
	if !ok {
		return false
	}
	s.Window.Push(temp)
	if avg, ok := s.Window.Average(); ok {
		s.LastGood.Temperature = avg
	}
	s.LastGood.Humidity = humi
	return true
}

// AcceptCO2 records the eCO2 value of d if present.
func (s *State) AcceptCO2(d *sensors.SensorData) bool {
	v, ok := CO2Sample(d)
	if ok {
		s.LastGood.CO2 = v
	}
	return ok
}

func (p *Plugin) OnStart(hc *host.Context) (*State, error) {
	hc.Log.Log("onStart called")

	if hc.Params.DebugMode == host.DebugOn {
		hc.Log.Debugging(true)
	}

	variant, err := ParseVariant(hc.Params.Variant)
	if err != nil {
		return nil, err
	}

	for _, d := range variant.devices() {
		if hc.Devices.Exists(d.Unit) {
			continue
		}
		if err := hc.Devices.Create(d); err != nil {
			return nil, fmt.Errorf("create %s: %w", d.Name, err)
		}
		hc.Log.Debug("Device created: %s (unit %d)", d.Name, d.Unit)
	}
	hc.DumpConfig()

	st := &State{
		Variant:  variant,
		Window:   window.New(variant.windowSize(hc.Params.WindowSize)),
		LastGood: InitialReading,
	}

	base := sensors.Config{
		GPIOPin:  hc.Params.GPIOPin,
		DHTType:  dhtType(hc.Params.SensorType),
		Retries:  hc.Params.ReadRetries,
		I2CBus:   hc.Params.I2CBus,
		I2CAddr:  hc.Params.I2CAddr,
		Simulate: hc.Params.Simulate,
	}

	cfg := base
	cfg.Kind = sensors.KindDHT
	st.Climate, st.ClimateCap = p.open(cfg)
	logCapability(hc, st.ClimateCap)

	if variant == VariantCCS811 {
		cfg = base
		cfg.Kind = sensors.KindCCS811
		st.Air, st.AirCap = p.open(cfg)
		logCapability(hc, st.AirCap)
	}

	hc.Heartbeat(hc.Params.Heartbeat)
	return st, nil
}

func dhtType(t host.SensorType) string {
	if t == host.DHT11 {
		return "dht11"
	}
	return "dht22"
}

func logCapability(hc *host.Context, c sensors.Capability) {
	if c.Ready {
		hc.Log.Debug("%s", c)
		return
	}
	hc.Log.Error("Error loading %s: %v", c.Driver, c.Err)
}

func (p *Plugin) OnStop(hc *host.Context, s *State) {
	hc.Log.Log("onStop called")
	if s == nil {
		return
	}
	for _, sn := range []sensors.Sensor{s.Climate, s.Air} {
		if sn == nil {
			continue
		}
		if err := sn.Close(); err != nil {
			hc.Log.Error("closing %s: %v", sn.Name(), err)
		}
	}
}

func (p *Plugin) OnHeartbeat(hc *host.Context, s *State) {
	hc.Log.Debug("In onHeartBeat. Prev value: %s", s.LastGood)

	accepted := p.pollClimate(hc, s)
	if s.Variant == VariantCCS811 {
		p.pollAir(hc, s, accepted)
	}

	updateDevice(hc, UnitTempHum, 0, TempHumValue(s.LastGood))
	if s.Variant == VariantCCS811 {
		ppm := int(math.Round(s.LastGood.CO2))
		updateDevice(hc, UnitAirQuality, ppm, strconv.Itoa(ppm))
	}
}

func (p *Plugin) pollClimate(hc *host.Context, s *State) bool {
	if !s.ClimateCap.Ready || s.Climate == nil {
		hc.Log.Debug("%s not available, reporting last good value", s.ClimateCap.Driver)
		return false
	}
	data, err := s.Climate.Read()
	if err != nil {
		hc.Log.Log("Error reading %s: %v", s.Climate.Name(), err)
		return false
	}
	if !s.Accept(data) {
		hc.Log.Debug("Rejected %s reading %v", s.Climate.Name(), data.Fields)
		return false
	}
	hc.Log.Debug("Accepted %v, window %v", data.Fields, s.Window.Values())
	return true
}

func (p *Plugin) pollAir(hc *host.Context, s *State, climateFresh bool) {
	if !s.AirCap.Ready || s.Air == nil {
		hc.Log.Debug("%s not available, reporting last good value", s.AirCap.Driver)
		return
	}
	if comp, ok := s.Air.(sensors.EnvCompensator); ok && climateFresh {
		if err := comp.SetEnvironment(s.LastGood.Temperature, s.LastGood.Humidity); err != nil {
			hc.Log.Debug("Setting %s environment: %v", s.Air.Name(), err)
		}
	}
	data, err := s.Air.Read()
	if err != nil {
		hc.Log.Log("Error reading %s: %v", s.Air.Name(), err)
		return
	}
	if !s.AcceptCO2(data) {
		hc.Log.Debug("Rejected %s reading %v", s.Air.Name(), data.Fields)
	}
}

// updateDevice writes the value only if the device still exists, since it
// may have been deleted from the registry.
func updateDevice(hc *host.Context, unit, nValue int, sValue string) {
	if !hc.Devices.Exists(unit) {
		return
	}
	changed, err := hc.Devices.Update(unit, nValue, sValue, batteryLevel)
	if err != nil {
		hc.Log.Error("Update unit %d: %v", unit, err)
		return
	}
	if changed {
		d, _ := hc.Devices.Get(unit)
		hc.Log.Debug("Update %d:'%s' (%s)", nValue, sValue, d.Name)
	}
}

func (p *Plugin) OnConnect(hc *host.Context, s *State, c host.Connection, status int, description string) {
	hc.Log.Log("onConnect called for %s (%s): %d %s", c.Name, c.Address, status, description)
}

func (p *Plugin) OnMessage(hc *host.Context, s *State, c host.Connection, data []byte) {
	hc.Log.Log("received")
	hc.Log.Debug("onMessage called with Data: '%s'", strings.ToValidUTF8(string(data), ""))
}

func (p *Plugin) OnCommand(hc *host.Context, s *State, cmd host.Command) {
	hc.Log.Log("onCommand called for Unit %d: Parameter '%s', Level: %d", cmd.Unit, cmd.Command, cmd.Level)
	if strings.EqualFold(cmd.Command, "Reset") {
		s.Window.Reset()
		hc.Log.Debug("smoothing window cleared")
	}
}

func (p *Plugin) OnNotification(hc *host.Context, s *State, n host.Notification) {
	hc.Log.Log("Notification: %s,%s,%s,%s,%d,%s,%s", n.Name, n.Subject, n.Text, n.Status, n.Priority, n.Sound, n.ImageFile)
}

func (p *Plugin) OnDisconnect(hc *host.Context, s *State, c host.Connection) {
	hc.Log.Log("onDisconnect called for %s", c.Name)
}
