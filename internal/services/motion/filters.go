package motion

import (
	"motionbench/internal/failure"
	"motionbench/internal/model"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Grayscale averages the channels of every pixel with truncating division.
// Single-channel input is copied unchanged.
func Grayscale(frame *model.Frame) *model.Frame {
	gray := model.NewFrame(frame.Width, frame.Height, 1)
	gray.Seq = frame.Seq

	ch := frame.Channels
	for p := 0; p < frame.Pixels(); p++ {
		sum := 0
		for c := 0; c < ch; c++ {
			sum += int(frame.Pix[p*ch+c])
		}
		gray.Pix[p] = uint8(sum / ch)
	}
	return gray
}

// Smooth applies a 3x3 mean filter to a single-channel frame. Neighbours
// outside the frame are left out of both sum and divisor.
func Smooth(frame *model.Frame) *model.Frame {
	w, h := frame.Width, frame.Height
	smoothed := model.NewFrame(w, h, 1)
	smoothed.Seq = frame.Seq

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, count := 0, 0
			for yy := y - 1; yy <= y+1; yy++ {
				if yy < 0 || yy >= h {
					continue
				}
				row := yy * w
				for xx := x - 1; xx <= x+1; xx++ {
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(frame.Pix[row+xx])
					count++
				}
			}
			smoothed.Pix[y*w+x] = uint8(sum / count)
		}
	}
	return smoothed
}

// DifferenceRatio returns the truncated percentage of pixels where the two
// single-channel frames differ. The Mats are local to the call and borrow
// the frames' pixels, so concurrent calls share no OpenCV state.
func DifferenceRatio(reference, frame *model.Frame) (int, error) {
	if reference.Channels != 1 || frame.Channels != 1 {
		return 0, failure.RuntimeProcessingf("difference",
			"expected single-channel frames, got %d and %d channels", reference.Channels, frame.Channels)
	}
	if reference.Width != frame.Width || reference.Height != frame.Height ||
		len(reference.Pix) != len(frame.Pix) {
		return 0, failure.RuntimeProcessingf("difference",
			"size mismatch %dx%d vs %dx%d", reference.Width, reference.Height, frame.Width, frame.Height)
	}

	refMat, err := gocv.NewMatFromBytes(reference.Height, reference.Width, gocv.MatTypeCV8UC1, reference.Pix)
	if err != nil {
		return 0, failure.RuntimeProcessing("difference", errors.Wrap(err, "failed to wrap reference"))
	}
	defer refMat.Close()

	frameMat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC1, frame.Pix)
	if err != nil {
		return 0, failure.RuntimeProcessing("difference", errors.Wrapf(err, "failed to wrap frame %d", frame.Seq))
	}
	defer frameMat.Close()

	diff := gocv.NewMat()
	defer diff.Close()

	if err := gocv.AbsDiff(refMat, frameMat, &diff); err != nil {
		return 0, failure.RuntimeProcessing("difference", errors.Wrapf(err, "failed to diff frame %d", frame.Seq))
	}

	different := gocv.CountNonZero(diff)
	return different * 100 / reference.Pixels(), nil
}
