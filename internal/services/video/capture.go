package video

import (
	"io"
	"sync"

	"motionbench/internal/failure"
	"motionbench/internal/model"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Capture reads decoded frames from a video file through OpenCV.
type Capture struct {
	path    string
	capture *gocv.VideoCapture
	mat     gocv.Mat
	seq     uint64
	mu      sync.Mutex
	closed  bool
}

// Open opens the video at path. A file OpenCV cannot open is an
// initialization failure.
func Open(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, failure.Initialization("open video", errors.Wrapf(err, "unable to open video file %s", path))
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, failure.Initialization("open video", errors.Errorf("unable to open video file %s", path))
	}

	return &Capture{
		path:    path,
		capture: vc,
		mat:     gocv.NewMat(),
	}, nil
}

// Next decodes the next frame. It returns io.EOF when the decoder yields
// no more frames.
func (c *Capture) Next() (*model.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, io.EOF
	}
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, io.EOF
	}

	frame, err := FrameFromMat(c.mat)
	if err != nil {
		return nil, failure.RuntimeProcessing("decode frame", errors.Wrapf(err, "%s frame %d", c.path, c.seq+1))
	}
	c.seq++
	frame.Seq = c.seq
	return frame, nil
}

// Close releases the decoder. Safe to call more than once.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	matErr := c.mat.Close()
	if err := c.capture.Close(); err != nil {
		return errors.Wrap(err, "failed to release video capture")
	}
	return matErr
}

// FrameFromMat copies an 8-bit Mat into a Frame.
func FrameFromMat(mat gocv.Mat) (*model.Frame, error) {
	if mat.Empty() {
		return nil, errors.New("empty mat")
	}

	rows, cols, channels := mat.Rows(), mat.Cols(), mat.Channels()
	data := mat.ToBytes()
	if len(data) != rows*cols*channels {
		return nil, errors.Errorf("unsupported pixel format: %d bytes for %dx%dx%d", len(data), cols, rows, channels)
	}

	return &model.Frame{
		Width:    cols,
		Height:   rows,
		Channels: channels,
		Pix:      data,
	}, nil
}
