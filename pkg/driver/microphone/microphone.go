//go:build !nomicrophone

package microphone

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/pion/localmedia/internal/logging"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/prop"
)

var logger = logging.NewLogger("localmedia/driver/microphone")

var (
	ctxOnce sync.Once
	ctx     *malgo.AllocatedContext
	ctxErr  error
)

func malgoContext() (*malgo.AllocatedContext, error) {
	ctxOnce.Do(func() {
		ctx, ctxErr = malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
			logger.Debugf("%v\n", message)
		})
	})
	return ctx, ctxErr
}

// Device is a driver.AudioDevice capturing from the default input device.
type Device struct {
	mu     sync.Mutex
	state  driver.State
	device *malgo.Device

	level atomic.Uint64
}

var _ driver.AudioDevice = (*Device)(nil)

// NewDevice creates a Device. The audio backend is initialized on first Start.
func NewDevice() *Device {
	return &Device{}
}

// Info implements driver.Infoer.
func (d *Device) Info() driver.Info {
	return driver.Info{Label: "default", DeviceType: driver.Microphone}
}

// Start implements driver.AudioDevice. Capture is signed 16-bit.
func (d *Device) Start(p prop.Audio) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.Update(driver.StateStarted, func() error {
		c, err := malgoContext()
		if err != nil {
			return fmt.Errorf("microphone: failed to init audio backend: %w", err)
		}

		config := malgo.DefaultDeviceConfig(malgo.Capture)
		config.PerformanceProfile = malgo.LowLatency
		config.Capture.Format = malgo.FormatS16
		config.Capture.Channels = uint32(p.ChannelCount)
		config.SampleRate = uint32(p.SampleRate)
		if p.Latency > 0 {
			config.PeriodSizeInMilliseconds = uint32(p.Latency.Milliseconds())
		}

		callbacks := malgo.DeviceCallbacks{
			Data: func(_, chunk []byte, _ uint32) {
				d.level.Store(math.Float64bits(level(chunk)))
			},
		}

		device, err := malgo.InitDevice(c.Context, config, callbacks)
		if err != nil {
			return fmt.Errorf("microphone: failed to init device: %w", err)
		}
		if err := device.Start(); err != nil {
			device.Uninit()
			return fmt.Errorf("microphone: failed to start device: %w", err)
		}

		d.device = device
		logger.Debugf("capturing %d channel(s) at %d Hz", p.ChannelCount, p.SampleRate)
		return nil
	})
}

// Stop implements driver.AudioDevice.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.Update(driver.StateStopped, func() error {
		err := d.device.Stop()
		d.device.Uninit()
		d.device = nil
		d.level.Store(0)
		return err
	})
}

// IsStarted implements driver.AudioDevice.
func (d *Device) IsStarted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == driver.StateStarted
}

// Level returns the RMS input level of the latest captured chunk in [0, 1].
func (d *Device) Level() float64 {
	return math.Float64frombits(d.level.Load())
}
