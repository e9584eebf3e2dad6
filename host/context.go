package host

import (
	"time"

	"github.com/Uranury/dhtplug/logging"
)

// DefaultHeartbeat is used until the plugin asks for another interval.
const DefaultHeartbeat = 10 * time.Second

// Context carries the host services into every plugin callback.
type Context struct {
	Log     logging.Logger
	Devices *Registry
	Params  Parameters

	heartbeat time.Duration
	rearm     bool
}

func NewContext(log logging.Logger, devices *Registry, params Parameters) *Context {
	return &Context{Log: log, Devices: devices, Params: params, heartbeat: DefaultHeartbeat}
}

// Heartbeat sets the polling interval. It takes effect once the current
// callback returns. Non-positive values are ignored.
func (c *Context) Heartbeat(d time.Duration) {
	if d <= 0 || d == c.heartbeat {
		return
	}
	c.heartbeat = d
	c.rearm = true
}

func (c *Context) HeartbeatInterval() time.Duration { return c.heartbeat }

// DumpConfig writes the parameters and registered devices to the debug log.
func (c *Context) DumpConfig() {
	for _, line := range c.Params.Dump() {
		c.Log.Debug("%s", line)
	}
	c.Log.Debug("Device count: %d", c.Devices.Len())
	for _, d := range c.Devices.All() {
		c.Log.Debug("Device:           %d - %s", d.Unit, d.Name)
		c.Log.Debug("Device ID:       '%d'", d.ID)
		c.Log.Debug("Device Name:     '%s'", d.Name)
		c.Log.Debug("Device nValue:    %d", d.NValue)
		c.Log.Debug("Device sValue:   '%s'", d.SValue)
		c.Log.Debug("Device LastLevel: %d", d.LastLevel)
	}
}
