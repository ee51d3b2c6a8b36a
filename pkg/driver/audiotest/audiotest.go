// Package audiotest provides an audio device for testing that captures
// nothing and records how it was driven.
package audiotest

import (
	"sync"

	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/prop"
)

// Device is a driver.AudioDevice without hardware behind it.
type Device struct {
	mu     sync.Mutex
	state  driver.State
	format prop.Audio
	starts int
	stops  int

	// StartErr, when set, is returned by Start.
	StartErr error
}

var _ driver.AudioDevice = (*Device)(nil)

// Info implements driver.Infoer.
func (d *Device) Info() driver.Info {
	return driver.Info{Label: "AudioTest", DeviceType: driver.Synthetic}
}

// Start implements driver.AudioDevice.
func (d *Device) Start(format prop.Audio) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.Update(driver.StateStarted, func() error {
		if d.StartErr != nil {
			return d.StartErr
		}
		d.format = format
		d.starts++
		return nil
	})
}

// Stop implements driver.AudioDevice.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.Update(driver.StateStopped, func() error {
		d.stops++
		return nil
	})
}

// IsStarted implements driver.AudioDevice.
func (d *Device) IsStarted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == driver.StateStarted
}

// Format returns the format of the last successful Start.
func (d *Device) Format() prop.Audio {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

// Counts returns how many times the device was started and stopped.
func (d *Device) Counts() (starts, stops int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.stops
}
