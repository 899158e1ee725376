package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

const (
	filePrefix      = "output_"
	timestampLayout = "20060102_150405"
	fileExt         = ".png"

	maxSuffix = 1000
)

var ErrNoFreeName = errors.New("no free file name")

// Writer saves images as PNG files named after the local time they were
// written. Saves within the same second get a numeric suffix instead of
// overwriting each other.
type Writer struct {
	Dir string
	Now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

func (w *Writer) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	base := filePrefix + now().Local().Format(timestampLayout)

	for i := 0; i < maxSuffix; i++ {
		name := base + fileExt
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i, fileExt)
		}
		path := filepath.Join(w.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("unable to create %s: %w", path, err)
		}

		if err := writePNG(f, img); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("unable to write %s: %w", path, err)
		}
		return path, nil
	}

	return "", fmt.Errorf("%w for %s in %s", ErrNoFreeName, base, w.Dir)
}

func writePNG(f *os.File, img image.Image) error {
	encodeErr := png.Encode(f, img)
	closeErr := f.Close()
	if encodeErr != nil {
		return encodeErr
	}
	return closeErr
}
