package main

import (
	"time"

	"github.com/pion/localmedia/pkg/frame"
	flag "github.com/spf13/pflag"
)

var (
	flagSource      string
	flagDevice      string
	flagDisplay     int
	flagFrameRate   float32
	flagMinWidth    int
	flagMinHeight   int
	flagMaxWidth    int
	flagMaxHeight   int
	flagMinFps      int
	flagMaxFps      int
	flagExactFps    int
	flagFormat      string
	flagCommand     string
	flagCommandSize string
	flagCommandFps  float32
	flagCommandPix  string
	flagDisabled    bool
	flagAudio       bool
	flagDuration    time.Duration
	flagSnapshot    string
	flagMetricsAddr string
	flagList        bool
	flagHelp        bool
)

func init() {
	flag.StringVarP(&flagSource, "source", "s", "test", "Video source: test, screen, camera or cmd")
	flag.StringVarP(&flagDevice, "device", "d", "", "Camera device path (default: first discovered)")
	flag.IntVar(&flagDisplay, "display", 0, "Display index for the screen source")
	flag.Float32Var(&flagFrameRate, "screen-fps", 10, "Capture rate for the screen source")
	flag.IntVar(&flagMinWidth, "min-width", 0, "Minimum capture width")
	flag.IntVar(&flagMinHeight, "min-height", 0, "Minimum capture height")
	flag.IntVar(&flagMaxWidth, "max-width", 0, "Maximum capture width")
	flag.IntVar(&flagMaxHeight, "max-height", 0, "Maximum capture height")
	flag.IntVar(&flagMinFps, "min-fps", 0, "Minimum frame rate")
	flag.IntVar(&flagMaxFps, "max-fps", 0, "Maximum frame rate")
	flag.IntVar(&flagExactFps, "exact-fps", 0, "Required frame rate")
	flag.StringVarP(&flagFormat, "format", "f", "", "Preferred pixel format, e.g. I420 or MJPEG")
	flag.StringVarP(&flagCommand, "command", "c", "", "Command writing raw frames to stdout, for the cmd source")
	flag.StringVar(&flagCommandSize, "command-size", "640x480", "Frame size the command produces")
	flag.Float32Var(&flagCommandFps, "command-fps", 30, "Frame rate the command produces")
	flag.StringVar(&flagCommandPix, "command-pixfmt", string(frame.FormatI420), "Pixel format the command produces")
	flag.BoolVar(&flagDisabled, "disabled", false, "Create the video track disabled")
	flag.BoolVarP(&flagAudio, "audio", "a", false, "Also capture from the default microphone")
	flag.DurationVarP(&flagDuration, "duration", "t", 5*time.Second, "How long to run")
	flag.StringVarP(&flagSnapshot, "snapshot", "o", "", "Write the last frame to this PNG file")
	flag.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	flag.BoolVarP(&flagList, "list", "l", false, "List the source's capture formats and exit")
	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
}

func constraintsRequested() bool {
	return flagMinWidth != 0 || flagMinHeight != 0 || flagMaxWidth != 0 || flagMaxHeight != 0 ||
		flagMinFps != 0 || flagMaxFps != 0 || flagExactFps != 0 || flagFormat != ""
}
