package localmedia

import "github.com/pion/localmedia/pkg/renderer"

// VideoRenderer receives frames from a LocalVideoTrack.
type VideoRenderer = renderer.Renderer

// VideoFrame is a frame delivered to a VideoRenderer.
type VideoFrame = renderer.Frame
