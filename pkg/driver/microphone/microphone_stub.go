//go:build nomicrophone

package microphone

// This stub is used when building with the 'nomicrophone' build tag, for
// cross-compilation or hosts without miniaudio's cgo dependencies.
//
//   go build -tags nomicrophone

import (
	"errors"

	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/prop"
)

var errNoMicrophone = errors.New("microphone: built with nomicrophone")

// Device is a placeholder whose Start always fails.
type Device struct{}

var _ driver.AudioDevice = (*Device)(nil)

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) Info() driver.Info {
	return driver.Info{Label: "default", DeviceType: driver.Microphone}
}

func (d *Device) Start(prop.Audio) error { return errNoMicrophone }
func (d *Device) Stop() error            { return errNoMicrophone }
func (d *Device) IsStarted() bool        { return false }
func (d *Device) Level() float64         { return 0 }
