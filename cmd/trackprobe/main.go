// Command trackprobe opens a capturer as a local video track, counts the
// frames delivered to a renderer and reports the negotiated format.
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/pion/localmedia"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/driver/camera"
	"github.com/pion/localmedia/pkg/driver/cmdsource"
	"github.com/pion/localmedia/pkg/driver/microphone"
	"github.com/pion/localmedia/pkg/driver/screen"
	"github.com/pion/localmedia/pkg/driver/videotest"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/prop"
	"github.com/pion/localmedia/pkg/renderer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
)

const releaseTimeout = 3 * time.Second

var (
	info = color.New(color.FgCyan)
	warn = color.New(color.FgYellow)
	fail = color.New(color.FgRed)
)

func main() {
	flag.Parse()
	if flagHelp {
		flag.Usage()
		return
	}

	if err := run(); err != nil {
		fail.Fprintf(os.Stderr, "trackprobe: %v\n", err)
		os.Exit(1)
	}
}

func openCapturer() (driver.VideoCapturer, func(), error) {
	switch flagSource {
	case "test":
		return videotest.NewCapturer(), func() {}, nil
	case "screen":
		if n := screen.NumDisplays(); flagDisplay >= n {
			return nil, nil, fmt.Errorf("display %d not found, %d active", flagDisplay, n)
		}
		return screen.NewCapturer(flagDisplay, flagFrameRate), func() {}, nil
	case "camera":
		devices := camera.Discover()
		if len(devices) == 0 {
			return nil, nil, errors.New("no camera found")
		}
		d := devices[0]
		if flagDevice != "" {
			d = camera.Device{Label: flagDevice, Path: flagDevice}
		}
		c, err := camera.NewCapturer(d)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	case "cmd":
		return openCommand()
	default:
		return nil, nil, fmt.Errorf("unknown source %q", flagSource)
	}
}

func openCommand() (driver.VideoCapturer, func(), error) {
	if flagCommand == "" {
		return nil, nil, errors.New("the cmd source needs --command")
	}
	var size prop.Dimensions
	if _, err := fmt.Sscanf(flagCommandSize, "%dx%d", &size.Width, &size.Height); err != nil {
		return nil, nil, fmt.Errorf("invalid --command-size %q: %w", flagCommandSize, err)
	}
	format := prop.Video{
		Dimensions:  size,
		FrameRate:   flagCommandFps,
		FrameFormat: frame.Format(flagCommandPix),
	}

	c, err := cmdsource.NewCapturer("cmd", flagCommand, []prop.Video{format}, cmdsource.DefaultReadTimeout)
	if err != nil {
		return nil, nil, err
	}
	return c, func() {}, nil
}

func buildOptions() ([]localmedia.VideoTrackOption, error) {
	opts := []localmedia.VideoTrackOption{localmedia.WithTrackName(flagSource)}
	if !constraintsRequested() {
		return opts, nil
	}

	constraints, err := localmedia.NewVideoConstraintsBuilder().
		MinVideoDimensions(localmedia.VideoDimensions{Width: flagMinWidth, Height: flagMinHeight}).
		MaxVideoDimensions(localmedia.VideoDimensions{Width: flagMaxWidth, Height: flagMaxHeight}).
		MinFps(flagMinFps).
		MaxFps(flagMaxFps).
		ExactFps(flagExactFps).
		PreferredFrameFormat(frame.Format(flagFormat)).
		Build()
	if err != nil {
		return nil, err
	}
	return append(opts, localmedia.WithVideoConstraints(constraints)), nil
}

func serveMetrics(f *localmedia.MediaFactory) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(localmedia.NewCollector(f))

	go func() {
		err := http.ListenAndServe(flagMetricsAddr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		warn.Fprintf(os.Stderr, "metrics server stopped: %v\n", err)
	}()
	info.Printf("serving metrics on %s/metrics\n", flagMetricsAddr)
}

func run() error {
	capturer, closeCapturer, err := openCapturer()
	if err != nil {
		return err
	}
	defer closeCapturer()

	if d, ok := capturer.(driver.Infoer); ok {
		i := d.Info()
		info.Printf("source %s (%s)\n", i.Label, i.DeviceType)
	}

	if flagList {
		for i, f := range capturer.SupportedFormats() {
			fmt.Printf("%2d  %s\n", i, f)
		}
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	factory := localmedia.NewMediaFactory()
	if flagMetricsAddr != "" {
		serveMetrics(factory)
	}

	var mediaOpts []localmedia.LocalMediaOption
	var mic *microphone.Device
	if flagAudio {
		mic = microphone.NewDevice()
		mediaOpts = append(mediaOpts, localmedia.WithAudioDevice(mic))
	}
	media, err := localmedia.NewLocalMedia(factory, mediaOpts...)
	if err != nil {
		return err
	}
	defer media.Release()

	track, err := media.AddVideoTrack(!flagDisabled, capturer, opts...)
	if err != nil {
		return err
	}
	if flagAudio {
		if _, err := media.AddAudioTrack(true, localmedia.NewAudioOptionsBuilder().Build()); err != nil {
			return err
		}
	}

	counter := renderer.NewFrameCounter()
	snapshot := renderer.NewSnapshot()
	if err := track.AddRenderer(counter); err != nil {
		return err
	}
	if err := track.AddRenderer(snapshot); err != nil {
		return err
	}

	ended := make(chan error, 1)
	track.OnEnded(func(err error) {
		ended <- err
	})

	info.Printf("capturing %s at %s for %s\n", track.Name(), track.CaptureFormat(), flagDuration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	select {
	case <-ctx.Done():
	case <-time.After(flagDuration):
	case err := <-ended:
		warn.Printf("track ended early: %v\n", err)
	}
	elapsed := time.Since(start)

	var level float64
	if mic != nil {
		level = mic.Level()
	}

	media.Release()
	select {
	case <-track.Done():
	case <-time.After(releaseTimeout):
		warn.Println("track did not finish releasing")
	}

	frames := counter.Count()
	fmt.Printf("frames:   %d (%.1f fps)\n", frames, float64(frames)/elapsed.Seconds())
	fmt.Printf("size:     %s\n", counter.Dimensions())
	if mic != nil {
		fmt.Printf("mic:      %.3f\n", level)
	}
	fmt.Printf("released: %t\n", factory.IsReleased())

	if flagSnapshot != "" {
		return writeSnapshot(snapshot, flagSnapshot)
	}
	return nil
}

func writeSnapshot(s *renderer.Snapshot, path string) error {
	img, seq, ok := s.Last()
	if !ok {
		return errors.New("no frame to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	info.Printf("wrote frame %d to %s\n", seq, path)
	return nil
}
