package motion

import (
	"io"
	"sync"

	"motionbench/internal/failure"
	"motionbench/internal/model"

	"github.com/pkg/errors"
)

const (
	MinThreshold = 0
	MaxThreshold = 100
)

// Detector compares frames against a fixed background reference.
//
// The reference is built once in New and only read afterwards, so
// DetectMotion may be called from any number of goroutines on distinct
// frames without locking.
type Detector struct {
	background *model.Frame // grayscale + smoothed, immutable
	pixels     int
	threshold  int

	source    model.Source
	closeOnce sync.Once
	closeErr  error
}

// New pulls the first frame of src as the background and prepares the
// reference. The detector takes ownership of src and releases it on Close.
func New(src model.Source, threshold int) (*Detector, error) {
	if src == nil {
		return nil, failure.Initialization("open source", errors.New("no frame source"))
	}
	if threshold < MinThreshold || threshold > MaxThreshold {
		closeSource(src)
		return nil, failure.Configurationf("threshold", "threshold %d outside [%d,%d]", threshold, MinThreshold, MaxThreshold)
	}

	raw, err := src.Next()
	if err == io.EOF {
		closeSource(src)
		return nil, failure.Initialization("read background", errors.New("the video stream is empty"))
	}
	if err != nil {
		closeSource(src)
		return nil, failure.Initialization("read background", err)
	}
	if !raw.Valid() {
		closeSource(src)
		return nil, failure.Initialization("read background", errors.Errorf("unusable background frame %dx%dx%d", raw.Width, raw.Height, raw.Channels))
	}

	background := Smooth(Grayscale(raw))

	return &Detector{
		background: background,
		pixels:     background.Pixels(),
		threshold:  threshold,
		source:     src,
	}, nil
}

// DetectMotion reports whether at least threshold percent of the pixels of
// frame differ from the background after grayscale and smoothing.
func (d *Detector) DetectMotion(frame *model.Frame) (bool, error) {
	if !frame.Valid() {
		return false, failure.RuntimeProcessingf("detect motion", "malformed frame %d", seqOf(frame))
	}
	if frame.Width != d.background.Width || frame.Height != d.background.Height {
		return false, failure.RuntimeProcessingf("detect motion",
			"frame %d is %dx%d, background is %dx%d",
			frame.Seq, frame.Width, frame.Height, d.background.Width, d.background.Height)
	}

	ratio, err := DifferenceRatio(d.background, Smooth(Grayscale(frame)))
	if err != nil {
		return false, err
	}
	return ratio >= d.threshold, nil
}

// Close releases the frame source. Safe to call more than once.
func (d *Detector) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = closeSource(d.source)
	})
	return d.closeErr
}

// Threshold returns k, the motion percentage threshold.
func (d *Detector) Threshold() int { return d.threshold }

// Pixels returns the pixel count of every frame in the stream.
func (d *Detector) Pixels() int { return d.pixels }

// Width returns the frame width.
func (d *Detector) Width() int { return d.background.Width }

// Height returns the frame height.
func (d *Detector) Height() int { return d.background.Height }

// Background returns a copy of the reference.
func (d *Detector) Background() *model.Frame { return d.background.Clone() }

func closeSource(src model.Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func seqOf(f *model.Frame) uint64 {
	if f == nil {
		return 0
	}
	return f.Seq
}
