package host

import "errors"

var (
	ErrDeviceExists     = errors.New("device_exists")
	ErrUnknownDevice    = errors.New("unknown_device")
	ErrInvalidParameter = errors.New("invalid_parameter")
	ErrStopped          = errors.New("runtime_stopped")
	ErrQueueFull        = errors.New("event_queue_full")
	ErrPanic            = errors.New("callback_panic")
)
