// Package host drives a sensor plugin: it owns the device registry and
// invokes the plugin's lifecycle callbacks one at a time on a single
// goroutine, with heartbeats on a fixed interval.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
)

// Connection identifies a client attached to the plugin (e.g. a websocket).
type Connection struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Command is an operator action addressed to one device unit.
type Command struct {
	Unit    int    `json:"unit"`
	Command string `json:"command"`
	Level   int    `json:"level"`
	Hue     string `json:"hue"`
}

type Notification struct {
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	Status    string `json:"status"`
	Priority  int    `json:"priority"`
	Sound     string `json:"sound"`
	ImageFile string `json:"image_file"`
}

// Plugin is the callback contract. S is the plugin state built by OnStart
// and handed back to every later callback.
type Plugin[S any] interface {
	OnStart(hc *Context) (S, error)
	OnStop(hc *Context, s S)
	OnHeartbeat(hc *Context, s S)
	OnConnect(hc *Context, s S, c Connection, status int, description string)
	OnMessage(hc *Context, s S, c Connection, data []byte)
	OnCommand(hc *Context, s S, cmd Command)
	OnNotification(hc *Context, s S, n Notification)
	OnDisconnect(hc *Context, s S, c Connection)
}

type event[S any] struct {
	name string
	fn   func(S)
}

// Runtime serialises all plugin callbacks onto the goroutine running Run.
type Runtime[S any] struct {
	plugin Plugin[S]
	hc     *Context
	clock  clock.Clock

	events chan event[S]
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	stopped bool // no more events are accepted
}

func NewRuntime[S any](p Plugin[S], hc *Context, clk clock.Clock) *Runtime[S] {
	if clk == nil {
		clk = clock.New()
	}
	return &Runtime[S]{
		plugin: p,
		hc:     hc,
		clock:  clk,
		events: make(chan event[S], 32),
		done:   make(chan struct{}),
	}
}

// Run starts the plugin and dispatches callbacks until ctx is cancelled,
// then calls OnStop. A failing or panicking OnStart is returned without
// running the loop.
func (r *Runtime[S]) Run(ctx context.Context) error {
	defer r.once.Do(func() { close(r.done) })
	defer r.stop()

	var (
		s   S
		err error
	)
	if perr := r.safe("onStart", func() { s, err = r.plugin.OnStart(r.hc) }); perr != nil {
		err = perr
	}
	if err != nil {
		return fmt.Errorf("plugin start: %w", err)
	}
	r.hc.rearm = false

	ticker := r.clock.Ticker(r.hc.heartbeat)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			r.stop()
			r.drain(s)
			r.safe("onStop", func() { r.plugin.OnStop(r.hc, s) })
			return nil
		case <-ticker.C:
			r.safe("onHeartbeat", func() { r.plugin.OnHeartbeat(r.hc, s) })
		case ev := <-r.events:
			r.safe(ev.name, func() { ev.fn(s) })
		}
		if r.hc.rearm {
			r.hc.rearm = false
			ticker.Stop()
			ticker = r.clock.Ticker(r.hc.heartbeat)
			r.hc.Log.Debug("heartbeat set to %s", r.hc.heartbeat)
		}
	}
}

// Done is closed once Run has returned.
func (r *Runtime[S]) Done() <-chan struct{} { return r.done }

func (r *Runtime[S]) stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// drain delivers events accepted before the stop. Nothing is enqueued
// once stopped is set, so an empty channel means every event was handled.
func (r *Runtime[S]) drain(s S) {
	for {
		select {
		case ev := <-r.events:
			r.safe(ev.name, func() { ev.fn(s) })
		default:
			return
		}
	}
}

// safe runs fn, turning a panic into a logged error.
func (r *Runtime[S]) safe(name string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.hc.Log.Error("%s panicked: %v", name, rec)
			err = fmt.Errorf("%w: %s: %v", ErrPanic, name, rec)
		}
	}()
	fn()
	return nil
}

func (r *Runtime[S]) submit(name string, fn func(S)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrStopped
	}
	select {
	case r.events <- event[S]{name: name, fn: fn}:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

func (r *Runtime[S]) Command(cmd Command) error {
	return r.submit("onCommand", func(s S) { r.plugin.OnCommand(r.hc, s, cmd) })
}

func (r *Runtime[S]) Notify(n Notification) error {
	return r.submit("onNotification", func(s S) { r.plugin.OnNotification(r.hc, s, n) })
}

func (r *Runtime[S]) Connect(c Connection, status int, description string) error {
	return r.submit("onConnect", func(s S) { r.plugin.OnConnect(r.hc, s, c, status, description) })
}

func (r *Runtime[S]) Message(c Connection, data []byte) error {
	return r.submit("onMessage", func(s S) { r.plugin.OnMessage(r.hc, s, c, data) })
}

func (r *Runtime[S]) Disconnect(c Connection) error {
	return r.submit("onDisconnect", func(s S) { r.plugin.OnDisconnect(r.hc, s, c) })
}
