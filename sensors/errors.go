package sensors

import "errors"

var (
	// Native driver or GPIO/I2C host could not be initialised.
	ErrDriverLoad = errors.New("driver_load")
	// Sensor was transiently unreadable.
	ErrRead = errors.New("read_failed")
	// Sensor never reported data-ready.
	ErrNotReady = errors.New("not_ready")

	ErrUnknownKind = errors.New("unknown_sensor_kind")
)
