package host

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Device is one entry of the host device registry.
type Device struct {
	Unit         int       `json:"unit"`
	ID           int       `json:"idx"`
	Name         string    `json:"name"`
	TypeName     string    `json:"type"`
	Used         bool      `json:"used"`
	NValue       int       `json:"nvalue"`
	SValue       string    `json:"svalue"`
	BatteryLevel int       `json:"battery"`
	LastLevel    int       `json:"last_level"`
	LastUpdate   time.Time `json:"last_update"`
}

// Sink receives every device state change.
type Sink interface {
	Name() string
	Publish(d Device) error
}

// Registry stores the plugin's devices keyed by unit number.
// Writes come from the runtime goroutine, reads may come from anywhere.
type Registry struct {
	mu      sync.RWMutex
	devices map[int]Device
	sinks   []Sink
	ids     map[int]int
	onErr   func(sink string, err error)
	now     func() time.Time
}

func NewRegistry(sinks ...Sink) *Registry {
	return &Registry{
		devices: make(map[int]Device),
		sinks:   sinks,
		now:     time.Now,
	}
}

// OnSinkError installs a callback for failed sink publishes.
func (r *Registry) OnSinkError(fn func(sink string, err error)) {
	r.mu.Lock()
	r.onErr = fn
	r.mu.Unlock()
}

// AddSink registers s for subsequent updates.
func (r *Registry) AddSink(s Sink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// AssignIDs sets the external idx (unit → idx) given to devices created
// afterwards without an explicit ID.
func (r *Registry) AssignIDs(ids map[int]int) {
	r.mu.Lock()
	r.ids = ids
	r.mu.Unlock()
}

func (r *Registry) Create(d Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[d.Unit]; ok {
		return fmt.Errorf("%w: unit %d", ErrDeviceExists, d.Unit)
	}
	if d.ID == 0 {
		d.ID = r.ids[d.Unit]
	}
	r.devices[d.Unit] = d
	return nil
}

func (r *Registry) Exists(unit int) bool {
	r.mu.RLock()
	_, ok := r.devices[unit]
	r.mu.RUnlock()
	return ok
}

func (r *Registry) Get(unit int) (Device, bool) {
	r.mu.RLock()
	d, ok := r.devices[unit]
	r.mu.RUnlock()
	return d, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// All returns the devices ordered by unit.
func (r *Registry) All() []Device {
	r.mu.RLock()
	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}

// Update sets the device values. It is a no-op when nothing changed.
// changed reports whether the stored state was modified.
func (r *Registry) Update(unit, nValue int, sValue string, battery int) (changed bool, err error) {
	r.mu.Lock()
	d, ok := r.devices[unit]
	if !ok {
		r.mu.Unlock()
		return false, fmt.Errorf("%w: unit %d", ErrUnknownDevice, unit)
	}
	if d.NValue == nValue && d.SValue == sValue {
		r.mu.Unlock()
		return false, nil
	}
	d.LastLevel = d.NValue
	d.NValue, d.SValue, d.BatteryLevel = nValue, sValue, battery
	d.LastUpdate = r.now()
	r.devices[unit] = d
	sinks := append([]Sink(nil), r.sinks...)
	onErr := r.onErr
	r.mu.Unlock()

	for _, s := range sinks {
		if err := s.Publish(d); err != nil && onErr != nil {
			onErr(s.Name(), err)
		}
	}
	return true, nil
}
