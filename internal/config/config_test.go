package config

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

func TestLoadMandelbrotConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *MandelbrotConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
fractal:
  width: 640
  height: 480
  max_iterations: 200
  palette: gradient
output:
  path: out/mandelbrot.png
  quality: 85
  pixels_per_inch: 300
encoder:
  png_compression: best_compression
  gif_colors: 64
  tiff_deflate: true
worker:
  pool_size: 4
cloudflare:
  account_id: account
  api_token: token
publish:
  enabled: true
  max_elapsed_time: 30s
`,
			validate: func(t *testing.T, cfg *MandelbrotConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, 640, cfg.Fractal.Width)
				assert.Equal(t, 480, cfg.Fractal.Height)
				assert.Equal(t, 200, cfg.Fractal.MaxIterations)
				assert.Equal(t, "gradient", cfg.Fractal.Palette)
				assert.Equal(t, "out/mandelbrot.png", cfg.Output.Path)
				assert.Equal(t, 85, cfg.Output.Quality)
				assert.Equal(t, 300.0, cfg.Output.PixelsPerInch)
				assert.Equal(t, "best_compression", cfg.Encoder.PNGCompression)
				assert.Equal(t, 64, cfg.Encoder.GIFColors)
				assert.True(t, cfg.Encoder.TIFFDeflate)
				assert.Equal(t, 4, cfg.Worker.WorkerPoolSize)
				assert.True(t, cfg.Publish.Enabled)
				assert.Equal(t, 30*time.Second, cfg.Publish.MaxElapsedTime)
			},
		},
		{
			name:       "config with defaults",
			configFile: "debug: false\n",
			validate: func(t *testing.T, cfg *MandelbrotConfig) {
				assert.Equal(t, 2048, cfg.Fractal.Width)
				assert.Equal(t, 1170, cfg.Fractal.Height)
				assert.Equal(t, 100, cfg.Fractal.MaxIterations)
				assert.Equal(t, "gray", cfg.Fractal.Palette)
				assert.Equal(t, -2.5, cfg.Fractal.MinReal)
				assert.Equal(t, -1.0, cfg.Fractal.MinImag)
				assert.Equal(t, 3.5, cfg.Fractal.RealRange)
				assert.Equal(t, 2.0, cfg.Fractal.ImagRange)
				assert.Equal(t, "mandelbrot.jpg", cfg.Output.Path)
				assert.Equal(t, 100, cfg.Output.Quality)
				assert.Zero(t, cfg.Output.PixelsPerInch)
				assert.Equal(t, 256, cfg.Encoder.GIFColors)
				assert.Equal(t, 2*time.Minute, cfg.Publish.MaxElapsedTime)
				assert.False(t, cfg.Publish.Enabled)
			},
		},
		{
			name: "publish without credentials",
			configFile: `
publish:
  enabled: true
`,
			expectError: true,
		},
		{
			name: "invalid value",
			configFile: `
fractal:
  width: wide
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.configFile), 0600))

			cfg, err := LoadMandelbrotConfig(configFile, t.TempDir())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadMandelbrotConfig_MissingFile(t *testing.T) {
	cfg, err := LoadMandelbrotConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Fractal.Width)
}

func TestLoadAPIConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  port: 9090
  allowed_origins:
    - https://feralfile.com
auth:
  api_keys:
    - key-1
    - key-2
limits:
  max_body_size: 1024
  max_width: 512
`), 0600))

	cfg, err := LoadAPIConfig(configFile, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 60, cfg.Server.WriteTimeout)
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"https://feralfile.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"key-1", "key-2"}, cfg.Auth.APIKeys)
	assert.Equal(t, int64(1024), cfg.Limits.MaxBodySize)
	assert.Equal(t, 512, cfg.Limits.MaxWidth)
	assert.Equal(t, 8192, cfg.Limits.MaxHeight)
	assert.Equal(t, 255, cfg.Limits.MaxIterations)
	assert.Equal(t, 5.0, cfg.Limits.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Limits.Burst)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()
	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	// Variables loaded from .env files are process-wide; clear them afterwards
	keys := []string{"FF_BITMAP_DEBUG", "FF_BITMAP_FRACTAL_WIDTH", "FF_BITMAP_OUTPUT_FORMAT", "FF_BITMAP_OUTPUT_QUALITY"}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})

	envContent := `FF_BITMAP_DEBUG=true
FF_BITMAP_FRACTAL_WIDTH=320
FF_BITMAP_OUTPUT_FORMAT=png
`
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))
	// Per-service local file overrides the shared one
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env.mandelbrot.local"), []byte("FF_BITMAP_OUTPUT_QUALITY=42\n"), 0600))

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
debug: false
fractal:
  width: 1024
output:
  quality: 90
`), 0600))

	cfg, err := LoadMandelbrotConfig(configPath, envDir)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 320, cfg.Fractal.Width)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 42, cfg.Output.Quality)
}

func TestEncoderConfig_CodecConfig(t *testing.T) {
	cfg, err := EncoderConfig{PNGCompression: "best_speed", GIFColors: 16, TIFFDeflate: true}.CodecConfig()
	require.NoError(t, err)
	assert.Equal(t, png.BestSpeed, cfg.PNGCompression)
	assert.Equal(t, 16, cfg.GIFColors)
	assert.True(t, cfg.TIFFDeflate)

	cfg, err = EncoderConfig{}.CodecConfig()
	require.NoError(t, err)
	assert.Equal(t, png.DefaultCompression, cfg.PNGCompression)

	_, err = EncoderConfig{PNGCompression: "ultra"}.CodecConfig()
	assert.Error(t, err)

	_, err = EncoderConfig{GIFColors: 300}.CodecConfig()
	assert.Error(t, err)
}

func TestOutputConfig_ContainerFormat(t *testing.T) {
	f, err := OutputConfig{Path: "out/fractal.TIF"}.ContainerFormat()
	require.NoError(t, err)
	assert.Equal(t, domain.ContainerFormatTIFF, f)

	f, err = OutputConfig{Path: "out/fractal.bin", Format: "gif"}.ContainerFormat()
	require.NoError(t, err)
	assert.Equal(t, domain.ContainerFormatGIF, f)

	_, err = OutputConfig{Path: "out/fractal"}.ContainerFormat()
	assert.ErrorIs(t, err, domain.ErrUnsupportedContainerFormat)
}
