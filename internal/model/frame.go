package model

// Frame is one decoded picture: Height rows of Width pixels, each pixel
// Channels interleaved 8-bit samples.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
	Seq      uint64 // 1-based position in the stream, set by the source
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height, channels int) *Frame {
	return &Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Empty reports whether the frame carries no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width == 0 || f.Height == 0 || len(f.Pix) == 0
}

// Pixels returns Width*Height.
func (f *Frame) Pixels() int {
	return f.Width * f.Height
}

// Valid reports whether Pix matches the declared geometry.
func (f *Frame) Valid() bool {
	return !f.Empty() && f.Channels > 0 && len(f.Pix) == f.Width*f.Height*f.Channels
}

// At returns the sample of channel c at row y, column x.
func (f *Frame) At(y, x, c int) uint8 {
	return f.Pix[(y*f.Width+x)*f.Channels+c]
}

// Set writes the sample of channel c at row y, column x.
func (f *Frame) Set(y, x, c int, v uint8) {
	f.Pix[(y*f.Width+x)*f.Channels+c] = v
}

// Fill sets every sample to v.
func (f *Frame) Fill(v uint8) {
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = make([]uint8, len(f.Pix))
	copy(c.Pix, f.Pix)
	return &c
}
