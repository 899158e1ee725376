package output

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 9))
	for x := 0; x < 16; x++ {
		for y := 0; y < 9; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 28), B: uint8(x ^ y), A: uint8(128 + x)})
		}
	}
	return img
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	return func() time.Time { return at }
}

func TestWriter_SaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	w := &Writer{Dir: dir, Now: fixedClock()}
	img := sampleImage()

	path, err := w.Save(img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output_20240309_140507.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), got.Bounds())

	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, img.At(x, y), color.NRGBAModel.Convert(got.At(x, y)), "pixel %d,%d", x, y)
		}
	}
}

func TestWriter_SameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Now: fixedClock()}

	first, err := w.Save(sampleImage())
	require.NoError(t, err)
	second, err := w.Save(sampleImage())
	require.NoError(t, err)
	third, err := w.Save(sampleImage())
	require.NoError(t, err)

	assert.Equal(t, "output_20240309_140507.png", filepath.Base(first))
	assert.Equal(t, "output_20240309_140507_1.png", filepath.Base(second))
	assert.Equal(t, "output_20240309_140507_2.png", filepath.Base(third))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriter_DirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewWriter(blocker).Save(sampleImage())
	assert.Error(t, err)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("out")
	assert.Equal(t, "out", w.Dir)
	require.NotNil(t, w.Now)
	assert.WithinDuration(t, time.Now(), w.Now(), time.Second)
}
