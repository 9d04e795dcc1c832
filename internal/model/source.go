package model

import (
	"io"
	"math/rand"
	"sync"
)

// Source yields frames in stream order. Next returns io.EOF once the
// stream is exhausted. Callers pull from a single goroutine.
type Source interface {
	Next() (*Frame, error)
}

// SliceSource replays a fixed list of frames.
type SliceSource struct {
	frames []*Frame
	pos    int
	closed bool
	mu     sync.Mutex
}

// NewSliceSource builds a source over frames. Frames are handed out as-is
// and must not be touched by the caller afterwards.
func NewSliceSource(frames ...*Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

// Next returns the next frame or io.EOF.
func (s *SliceSource) Next() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.frames[s.pos] = nil
	s.pos++
	if f != nil && f.Seq == 0 {
		f.Seq = uint64(s.pos)
	}
	return f, nil
}

// Close ends the stream early.
func (s *SliceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *SliceSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// StreamSpec describes a synthetic stream: a uniform background followed by
// Still frames identical to it and Moving frames with the first
// ChangedPercent of pixels set to a different value.
type StreamSpec struct {
	Width          int
	Height         int
	Channels       int
	Background     uint8
	Still          int
	Moving         int
	ChangedPercent int
}

// SyntheticStream builds the frames described by st. The first frame is
// the background.
func SyntheticStream(st StreamSpec) []*Frame {
	frames := make([]*Frame, 0, 1+st.Still+st.Moving)

	background := NewFrame(st.Width, st.Height, st.Channels)
	background.Fill(st.Background)
	frames = append(frames, background)

	for i := 0; i < st.Still; i++ {
		frames = append(frames, background.Clone())
	}

	changed := st.Width * st.Height * st.ChangedPercent / 100
	for i := 0; i < st.Moving; i++ {
		f := background.Clone()
		paintRows(f, changed, st.Background^0xFF)
		frames = append(frames, f)
	}
	return frames
}

// paintRows sets the first n pixels (row-major) to v on every channel.
func paintRows(f *Frame, n int, v uint8) {
	for p := 0; p < n && p < f.Pixels(); p++ {
		for c := 0; c < f.Channels; c++ {
			f.Pix[p*f.Channels+c] = v
		}
	}
}

// RandomStream builds count frames of random noise blocks over a constant
// background. Deterministic for a given seed.
func RandomStream(seed int64, count, width, height, channels int) []*Frame {
	rng := rand.New(rand.NewSource(seed))
	frames := make([]*Frame, 0, count)

	for i := 0; i < count; i++ {
		f := NewFrame(width, height, channels)
		f.Fill(40)
		if i > 0 {
			blocks := rng.Intn(4)
			for b := 0; b < blocks; b++ {
				y0, x0 := rng.Intn(height), rng.Intn(width)
				h, w := 1+rng.Intn(height), 1+rng.Intn(width)
				v := uint8(rng.Intn(256))
				for y := y0; y < y0+h && y < height; y++ {
					for x := x0; x < x0+w && x < width; x++ {
						for c := 0; c < channels; c++ {
							f.Set(y, x, c, v)
						}
					}
				}
			}
		}
		frames = append(frames, f)
	}
	return frames
}
