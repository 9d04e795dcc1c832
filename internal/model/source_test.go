package model

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSource_OrderAndEOF(t *testing.T) {
	a, b := NewFrame(2, 2, 1), NewFrame(2, 2, 1)
	src := NewSliceSource(a, b)

	got, err := src.Next()
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, uint64(1), got.Seq)

	got, err = src.Next()
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, uint64(2), got.Seq)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSliceSource_Close(t *testing.T) {
	src := NewSliceSource(NewFrame(1, 1, 1))
	require.NoError(t, src.Close())
	assert.True(t, src.Closed())

	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrame_Geometry(t *testing.T) {
	f := NewFrame(4, 3, 3)
	assert.Equal(t, 12, f.Pixels())
	assert.Len(t, f.Pix, 36)
	assert.True(t, f.Valid())

	f.Set(2, 3, 1, 9)
	assert.Equal(t, uint8(9), f.At(2, 3, 1))

	c := f.Clone()
	c.Set(2, 3, 1, 0)
	assert.Equal(t, uint8(9), f.At(2, 3, 1))

	var empty *Frame
	assert.True(t, empty.Empty())
	assert.False(t, (&Frame{Width: 2, Height: 2, Channels: 1, Pix: []uint8{1}}).Valid())
}

func TestSyntheticStream(t *testing.T) {
	frames := SyntheticStream(StreamSpec{
		Width: 10, Height: 10, Channels: 3,
		Still: 4, Moving: 5, ChangedPercent: 50,
	})
	require.Len(t, frames, 10)

	assert.Equal(t, frames[0].Pix, frames[4].Pix)

	moving := frames[5]
	changed := 0
	for p := 0; p < moving.Pixels(); p++ {
		if moving.Pix[p*3] != 0 {
			changed++
		}
	}
	assert.Equal(t, 50, changed)
}

func TestRandomStream_Deterministic(t *testing.T) {
	a := RandomStream(7, 5, 8, 6, 3)
	b := RandomStream(7, 5, 8, 6, 3)
	require.Len(t, a, 5)
	for i := range a {
		assert.Equal(t, a[i].Pix, b[i].Pix)
	}
}
