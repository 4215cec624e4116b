package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/bitmap"
	"github.com/feral-file/ff-bitmap/internal/codec"
	"github.com/feral-file/ff-bitmap/internal/config"
	"github.com/feral-file/ff-bitmap/internal/fractal"
	"github.com/feral-file/ff-bitmap/internal/logger"
	"github.com/feral-file/ff-bitmap/internal/publisher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	outPath    = flag.String("out", "", "Output image path, overrides output.path")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadMandelbrotConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *outPath != "" {
		cfg.Output.Path = *outPath
	}

	// Cancel rendering and uploads on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "mandelbrot",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	if err := run(ctx, cfg); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "mandelbrot"))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.MandelbrotConfig) error {
	format, err := cfg.Output.ContainerFormat()
	if err != nil {
		return fmt.Errorf("failed to resolve output format: %w", err)
	}
	codecConfig, err := cfg.Encoder.CodecConfig()
	if err != nil {
		return fmt.Errorf("invalid encoder configuration: %w", err)
	}
	palette, err := fractal.Palette(cfg.Fractal.Palette, cfg.Fractal.MaxIterations)
	if err != nil {
		return err
	}

	clock := adapter.NewClock()
	renderer := fractal.NewRenderer(cfg.Worker.WorkerPoolSize, clock)
	result, err := renderer.Render(ctx, fractal.Config{
		Width:         cfg.Fractal.Width,
		Height:        cfg.Fractal.Height,
		MaxIterations: cfg.Fractal.MaxIterations,
		Viewport: fractal.Viewport{
			MinReal: cfg.Fractal.MinReal,
			MinImag: cfg.Fractal.MinImag,
			Real:    cfg.Fractal.RealRange,
			Imag:    cfg.Fractal.ImagRange,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	factory := bitmap.NewFactory(adapter.NewFileSystem(), codec.NewDefaultRegistry(adapter.NewImageEncoder(), codecConfig))
	builder, err := factory.New(result.Width, result.Height, result.PixelFormat())
	if err != nil {
		return err
	}
	builder.
		SetPalette(palette).
		SetPixelData(result.Pixels).
		SetContainerFormat(format).
		SetQuality(cfg.Output.Quality)
	if cfg.Output.PixelsPerInch > 0 {
		builder.SetPixelsPerInch(cfg.Output.PixelsPerInch)
	}

	if err := builder.Save(ctx, cfg.Output.Path); err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", cfg.Output.Path, err)
	}
	detected := mimetype.Detect(data)
	if !detected.Is(format.MimeType()) {
		return fmt.Errorf("encoded %s but file sniffs as %s", format.MimeType(), detected.String())
	}
	logger.InfoCtx(ctx, "Mandelbrot image written",
		zap.String("path", cfg.Output.Path),
		zap.String("mimeType", detected.String()),
		zap.Int("size", len(data)),
	)

	if !cfg.Publish.Enabled {
		return nil
	}

	client, err := adapter.NewCloudflareClient(cfg.Cloudflare.APIToken)
	if err != nil {
		return fmt.Errorf("failed to create Cloudflare client: %w", err)
	}
	pub := publisher.NewCloudflarePublisher(client, clock, publisher.Config{
		AccountID:      cfg.Cloudflare.AccountID,
		MaxElapsedTime: cfg.Publish.MaxElapsedTime,
	})
	published, err := pub.Publish(ctx, format, data, map[string]interface{}{
		"width":         result.Width,
		"height":        result.Height,
		"maxIterations": cfg.Fractal.MaxIterations,
		"palette":       cfg.Fractal.Palette,
	})
	if err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Mandelbrot image published",
		zap.String("imageID", published.ID),
		zap.Strings("variants", published.Variants),
	)
	return nil
}
