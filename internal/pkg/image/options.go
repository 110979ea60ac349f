package image //nolint:revive // it's okay for an internal package to use this name

import "time"

// Option to tune the PNG capture.
type Option func(*options)

type options struct {
	Width         int64
	Height        int64
	SleepDuration time.Duration
}

// Capture defaults match a full-HD landscape viewport.
const (
	defaultWidth  int64 = 1920
	defaultHeight int64 = 1080
	defaultSettle       = time.Second
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Width:         defaultWidth,
		Height:        defaultHeight,
		SleepDuration: defaultSettle,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithWidth sets the capture viewport width in pixels. Non-positive values
// keep the default of 1920.
func WithWidth(width int64) Option {
	return func(o *options) {
		if width > 0 {
			o.Width = width
		}
	}
}

// WithHeight sets the capture viewport height in pixels. Non-positive
// values keep the default of 1080.
func WithHeight(height int64) Option {
	return func(o *options) {
		if height > 0 {
			o.Height = height
		}
	}
}

// WithSleep sets how long the headless browser waits for the page to settle
// before the screenshot. A zero duration keeps the default of 1s.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep != 0 {
			o.SleepDuration = sleep
		}
	}
}
