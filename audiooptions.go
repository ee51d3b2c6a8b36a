package localmedia

import (
	"fmt"
	"strings"
)

// AudioOptions configures the audio processing applied to a local audio
// track. It is immutable once built.
type AudioOptions struct {
	echoCancellation                bool
	autoGainControl                 bool
	noiseSuppression                bool
	highpassFilter                  bool
	stereoSwapping                  bool
	audioJitterBufferFastAccelerate bool
	typingDetection                 bool
}

func (o AudioOptions) EchoCancellation() bool { return o.echoCancellation }
func (o AudioOptions) AutoGainControl() bool  { return o.autoGainControl }
func (o AudioOptions) NoiseSuppression() bool { return o.noiseSuppression }
func (o AudioOptions) HighpassFilter() bool   { return o.highpassFilter }
func (o AudioOptions) StereoSwapping() bool   { return o.stereoSwapping }
func (o AudioOptions) TypingDetection() bool  { return o.typingDetection }
func (o AudioOptions) AudioJitterBufferFastAccelerate() bool {
	return o.audioJitterBufferFastAccelerate
}

func (o AudioOptions) String() string {
	fields := []struct {
		name string
		v    bool
	}{
		{"echoCancellation", o.echoCancellation},
		{"autoGainControl", o.autoGainControl},
		{"noiseSuppression", o.noiseSuppression},
		{"highpassFilter", o.highpassFilter},
		{"stereoSwapping", o.stereoSwapping},
		{"audioJitterBufferFastAccelerate", o.audioJitterBufferFastAccelerate},
		{"typingDetection", o.typingDetection},
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s=%t", f.name, f.v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// AudioOptionsBuilder builds AudioOptions. Every option defaults to false.
type AudioOptionsBuilder struct {
	o AudioOptions
}

func NewAudioOptionsBuilder() *AudioOptionsBuilder {
	return &AudioOptionsBuilder{}
}

func (b *AudioOptionsBuilder) EchoCancellation(v bool) *AudioOptionsBuilder {
	b.o.echoCancellation = v
	return b
}

func (b *AudioOptionsBuilder) AutoGainControl(v bool) *AudioOptionsBuilder {
	b.o.autoGainControl = v
	return b
}

func (b *AudioOptionsBuilder) NoiseSuppression(v bool) *AudioOptionsBuilder {
	b.o.noiseSuppression = v
	return b
}

func (b *AudioOptionsBuilder) HighpassFilter(v bool) *AudioOptionsBuilder {
	b.o.highpassFilter = v
	return b
}

func (b *AudioOptionsBuilder) StereoSwapping(v bool) *AudioOptionsBuilder {
	b.o.stereoSwapping = v
	return b
}

func (b *AudioOptionsBuilder) AudioJitterBufferFastAccelerate(v bool) *AudioOptionsBuilder {
	b.o.audioJitterBufferFastAccelerate = v
	return b
}

func (b *AudioOptionsBuilder) TypingDetection(v bool) *AudioOptionsBuilder {
	b.o.typingDetection = v
	return b
}

// Build returns the options. The builder may be reused; later changes do not
// affect options already built.
func (b *AudioOptionsBuilder) Build() AudioOptions {
	return b.o
}
