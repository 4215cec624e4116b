package bitmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/feral-file/ff-bitmap/internal/codec"
	"github.com/feral-file/ff-bitmap/internal/density"
	"github.com/feral-file/ff-bitmap/internal/logger"
	"github.com/feral-file/ff-bitmap/internal/raster"
)

// Save encodes the image and writes it to filePath, creating or truncating the file.
// The file is only opened once encoding has succeeded.
func (b *Builder) Save(ctx context.Context, filePath string) error {
	data, err := b.encode(ctx)
	if err != nil {
		return err
	}

	f, err := b.fs.Create(filePath)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("path", filePath))
		return stageError(StagePersist, err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("path", filePath))
		return stageError(StagePersist, fmt.Errorf("failed to write %s: %w", filePath, err))
	}

	logger.InfoCtx(ctx, "Image saved",
		zap.String("path", filePath),
		zap.String("containerFormat", string(b.containerFormat)),
		zap.Int("outputSize", len(data)),
	)
	return nil
}

// SaveTo encodes the image and writes it to w. The writer is not closed.
func (b *Builder) SaveTo(ctx context.Context, w io.Writer) error {
	data, err := b.encode(ctx)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		logger.ErrorCtx(ctx, err)
		return stageError(StagePersist, err)
	}

	logger.InfoCtx(ctx, "Image written",
		zap.String("containerFormat", string(b.containerFormat)),
		zap.Int("outputSize", len(data)),
	)
	return nil
}

// Encode returns the encoded image bytes
func (b *Builder) Encode(ctx context.Context) ([]byte, error) {
	return b.encode(ctx)
}

func (b *Builder) encode(ctx context.Context) ([]byte, error) {
	// Configured -> Validated
	if b.err != nil {
		return nil, stageError(StageValidate, b.err)
	}
	if err := raster.ValidateBuffer(b.pixels, b.stride, b.height); err != nil {
		return nil, stageError(StageValidate, err)
	}
	logger.DebugCtx(ctx, "Pixel buffer validated",
		zap.Int("width", b.width),
		zap.Int("height", b.height),
		zap.Int("stride", b.stride),
		zap.String("pixelFormat", string(b.pixelFormat)),
	)

	// Validated -> Materialized
	pixels := raster.Materialize(b.pixels, b.stride, b.height)
	logger.DebugCtx(ctx, "Pixel buffer materialized",
		zap.Bool("zeroFilled", b.pixels == nil),
		zap.Int("bufferSize", len(pixels)),
	)

	// Materialized -> Encoded
	data, err := b.render(pixels)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("containerFormat", string(b.containerFormat)))
		return nil, stageError(StageEncode, err)
	}
	logger.DebugCtx(ctx, "Image encoded",
		zap.String("containerFormat", string(b.containerFormat)),
		zap.Int("quality", b.quality),
		zap.Int("outputSize", len(data)),
	)

	return data, nil
}

// render encodes pixels through a view that lives only for the duration of the call
func (b *Builder) render(pixels []byte) ([]byte, error) {
	table := raster.PaletteTable(b.pixelFormat)

	view, err := raster.Acquire(pixels, b.width, b.height, b.stride, b.pixelFormat, table)
	if err != nil {
		return nil, err
	}
	defer view.Close() //nolint:errcheck

	if table != nil && len(b.palette) > 0 {
		if err := raster.ApplyPalette(table, b.palette); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	opts := codec.Options{Quality: b.quality}
	if err := b.registry.Encode(&buf, view.Image(), b.containerFormat, opts); err != nil {
		return nil, err
	}

	if b.ppi == 0 {
		return buf.Bytes(), nil
	}
	return density.Apply(b.containerFormat, buf.Bytes(), b.ppi)
}
