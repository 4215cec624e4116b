package config

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-bitmap/internal/codec"
	"github.com/feral-file/ff-bitmap/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// EncoderConfig holds the parameters of the specialised container encoders
type EncoderConfig struct {
	PNGCompression string `mapstructure:"png_compression"` // default, none, best_speed, best_compression
	GIFColors      int    `mapstructure:"gif_colors"`
	TIFFDeflate    bool   `mapstructure:"tiff_deflate"`
}

// OutputConfig holds the encoded output settings
type OutputConfig struct {
	Path          string  `mapstructure:"path"`
	Format        string  `mapstructure:"format"` // empty = derive from path extension
	Quality       int     `mapstructure:"quality"`
	PixelsPerInch float64 `mapstructure:"pixels_per_inch"` // 0 = leave encoder output untouched
}

// FractalConfig holds Mandelbrot render settings
type FractalConfig struct {
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Palette       string  `mapstructure:"palette"` // gradient or gray
	MinReal       float64 `mapstructure:"min_real"`
	MinImag       float64 `mapstructure:"min_imag"`
	RealRange     float64 `mapstructure:"real_range"`
	ImagRange     float64 `mapstructure:"imag_range"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize int `mapstructure:"pool_size"`
}

// CloudflareConfig holds Cloudflare configuration
type CloudflareConfig struct {
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
}

// PublishConfig holds settings for uploading rendered images
type PublishConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// LimitsConfig bounds the work a single API request may ask for
type LimitsConfig struct {
	MaxBodySize   int64 `mapstructure:"max_body_size"`
	MaxWidth      int   `mapstructure:"max_width"`
	MaxHeight     int   `mapstructure:"max_height"`
	MaxIterations int   `mapstructure:"max_iterations"`

	// Per-client rate limit on /api/v1; 0 disables it
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MandelbrotConfig holds configuration for the mandelbrot command
type MandelbrotConfig struct {
	BaseConfig `mapstructure:",squash"`
	Fractal    FractalConfig    `mapstructure:"fractal"`
	Output     OutputConfig     `mapstructure:"output"`
	Encoder    EncoderConfig    `mapstructure:"encoder"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Publish    PublishConfig    `mapstructure:"publish"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig  `mapstructure:"server"`
	Auth       AuthConfig    `mapstructure:"auth"`
	Encoder    EncoderConfig `mapstructure:"encoder"`
	Limits     LimitsConfig  `mapstructure:"limits"`
	Worker     WorkerConfig  `mapstructure:"worker"`
}

// LoadMandelbrotConfig loads configuration for the mandelbrot command
func LoadMandelbrotConfig(configFile string, envPath string) (*MandelbrotConfig, error) {
	v := configureViper("mandelbrot", configFile, envPath)

	// Set defaults
	v.SetDefault("fractal.width", 2048)
	v.SetDefault("fractal.height", 1170)
	v.SetDefault("fractal.max_iterations", 100)
	v.SetDefault("fractal.palette", "gray")
	v.SetDefault("fractal.min_real", -2.5)
	v.SetDefault("fractal.min_imag", -1.0)
	v.SetDefault("fractal.real_range", 3.5)
	v.SetDefault("fractal.imag_range", 2.0)
	v.SetDefault("output.path", "mandelbrot.jpg")
	v.SetDefault("output.quality", domain.DEFAULT_QUALITY)
	v.SetDefault("encoder.png_compression", "default")
	v.SetDefault("encoder.gif_colors", 256)
	v.SetDefault("worker.pool_size", 0)
	v.SetDefault("publish.max_elapsed_time", "2m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg MandelbrotConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Publish.Enabled && (cfg.Cloudflare.AccountID == "" || cfg.Cloudflare.APIToken == "") {
		return nil, errors.New("cloudflare.account_id and cloudflare.api_token are required when publish.enabled is set")
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("encoder.png_compression", "default")
	v.SetDefault("encoder.gif_colors", 256)
	v.SetDefault("limits.max_body_size", 64*1024*1024) // 64MB
	v.SetDefault("limits.max_width", 8192)
	v.SetDefault("limits.max_height", 8192)
	v.SetDefault("limits.max_iterations", 255)
	v.SetDefault("limits.requests_per_second", 5)
	v.SetDefault("limits.burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("worker.pool_size", 0)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// readConfig reads the config file, falling back to environment variables when none is found
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_BITMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Fractal
		"fractal.width",
		"fractal.height",
		"fractal.max_iterations",
		"fractal.palette",
		"fractal.min_real",
		"fractal.min_imag",
		"fractal.real_range",
		"fractal.imag_range",
		// Output
		"output.path",
		"output.format",
		"output.quality",
		"output.pixels_per_inch",
		// Encoder
		"encoder.png_compression",
		"encoder.gif_colors",
		"encoder.tiff_deflate",
		// Worker
		"worker.pool_size",
		// Cloudflare
		"cloudflare.account_id",
		"cloudflare.api_token",
		"publish.enabled",
		"publish.max_elapsed_time",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Limits
		"limits.max_body_size",
		"limits.max_width",
		"limits.max_height",
		"limits.max_iterations",
		"limits.requests_per_second",
		"limits.burst",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then optional per-service local
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

var pngCompressionLevels = map[string]png.CompressionLevel{
	"":                 png.DefaultCompression,
	"default":          png.DefaultCompression,
	"none":             png.NoCompression,
	"best_speed":       png.BestSpeed,
	"best_compression": png.BestCompression,
}

// CodecConfig converts the encoder settings into codec parameters
func (c EncoderConfig) CodecConfig() (codec.Config, error) {
	level, ok := pngCompressionLevels[strings.ToLower(c.PNGCompression)]
	if !ok {
		return codec.Config{}, fmt.Errorf("unknown png compression %q", c.PNGCompression)
	}
	if c.GIFColors < 0 || c.GIFColors > 256 {
		return codec.Config{}, fmt.Errorf("gif colors must be between 1 and 256, got %d", c.GIFColors)
	}

	return codec.Config{
		PNGCompression: level,
		GIFColors:      c.GIFColors,
		TIFFDeflate:    c.TIFFDeflate,
	}, nil
}

// ContainerFormat resolves the output format, from Format when set or else from the path extension
func (c OutputConfig) ContainerFormat() (domain.ContainerFormat, error) {
	if c.Format != "" {
		return domain.ParseContainerFormat(c.Format)
	}
	return domain.ContainerFormatFromPath(c.Path)
}
