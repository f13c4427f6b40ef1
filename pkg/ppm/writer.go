package ppm

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/magnetar-io/magnetar/pkg/compression"
	"github.com/magnetar-io/magnetar/pkg/errors"
	"github.com/magnetar-io/magnetar/pkg/logger"
	"github.com/magnetar-io/magnetar/pkg/stopwatch"
	stringpool "github.com/magnetar-io/magnetar/pkg/strings"
)

// Options controls how WriteFile renders its output.
type Options struct {
	// Compression selects the codec wrapped around the PPM stream. Nil or
	// the None algorithm writes a plain file.
	Compression *compression.Config

	// Progress, when set, receives the whole percentage of pixels written
	// each time it changes.
	Progress func(percent int)
}

// quantize maps a [0,1] channel onto the 0..255 integers of the plain PPM
// format.
func quantize(c float64) int64 {
	return int64(256 * Clamp(c, 0, 0.999))
}

func (img *Image) validate() error {
	if img == nil || len(img.Pixels) == 0 {
		return errors.New(errors.ErrorTypeValidation, "image has no pixels")
	}
	if len(img.Pixels) != img.Width*img.Height {
		return errors.New(errors.ErrorTypeValidation, "pixel count does not match dimensions").
			WithDetail("width", img.Width).
			WithDetail("height", img.Height).
			WithDetail("pixels", len(img.Pixels))
	}
	return nil
}

// Encode writes img to w in the plain P3 format: a "P3\n{width}
// {height}\n255\n" header followed by one "R G B" triplet line per pixel,
// top row first, each channel quantized to 0..255.
func Encode(w io.Writer, img *Image) error {
	return encode(w, img, nil)
}

func encode(w io.Writer, img *Image, progress func(int)) error {
	if err := img.validate(); err != nil {
		return err
	}

	builder := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(builder, stringpool.Large)

	builder.WriteString("P3\n")
	builder.WriteInt(int64(img.Width))
	builder.WriteByte(' ')
	builder.WriteInt(int64(img.Height))
	builder.WriteString("\n255\n")

	total := len(img.Pixels)
	percent := 0
	for i, p := range img.Pixels {
		builder.WriteInt(quantize(p.R))
		builder.WriteByte(' ')
		builder.WriteInt(quantize(p.G))
		builder.WriteByte(' ')
		builder.WriteInt(quantize(p.B))
		builder.WriteByte('\n')

		// Flush at row boundaries so buffering stays bounded by one row.
		if (i+1)%img.Width == 0 {
			if _, err := w.Write(builder.Bytes()); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write pixel rows")
			}
			builder.Reset()
		}

		if progress != nil {
			if pct := ((i + 1) * 100) / total; pct != percent {
				percent = pct
				progress(pct)
			}
		}
	}
	return nil
}

// WriteFile encodes img to path, wrapping the stream in the configured
// compression codec. An existing file at path is truncated.
func WriteFile(path string, img *Image, opts Options) error {
	if err := img.validate(); err != nil {
		return err
	}

	algorithm := compression.None
	if opts.Compression != nil && opts.Compression.Algorithm != "" {
		algorithm = opts.Compression.Algorithm
	}

	var comp compression.Compressor
	if algorithm != compression.None {
		c, err := compression.NewCompressor(opts.Compression)
		if err != nil {
			return err
		}
		comp = c
	}

	sw := stopwatch.NewStarted()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create image file").
			WithDetail("path", path)
	}

	writeErr := writeTo(f, img, comp, opts.Progress)
	if closeErr := f.Close(); writeErr == nil && closeErr != nil {
		writeErr = errors.Wrap(closeErr, errors.ErrorTypeFile, "failed to close image file").
			WithDetail("path", path)
	}
	if writeErr != nil {
		return writeErr
	}

	logger.Get().Debug("ppm file written",
		zap.String("path", path),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.String("compression", string(algorithm)),
		zap.Duration("elapsed", sw.Elapsed()))
	return nil
}

func writeTo(w io.Writer, img *Image, comp compression.Compressor, progress func(int)) error {
	if comp == nil {
		bw := bufio.NewWriterSize(w, 64*1024)
		if err := encode(bw, img, progress); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush image file")
		}
		return nil
	}

	// Stream the encoding through the codec without materializing the
	// whole image in memory.
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(encode(pw, img, progress))
	}()
	if err := comp.CompressStream(w, pr); err != nil {
		pr.CloseWithError(err)
		return errors.Wrap(err, errors.ErrorTypeEncode, "failed to compress image stream").
			WithDetail("algorithm", string(comp.Algorithm()))
	}
	return nil
}
