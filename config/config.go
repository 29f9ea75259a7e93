package config

import (
	"github.com/pkg/errors"

	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/utils"
)

// DefaultNumSamples is how many points a mesh is reduced to before fitting.
const DefaultNumSamples = 8000

// Config is the tool configuration. Command line flags override any value set here.
type Config struct {
	LibraryPath   string `json:"library_path"`
	OutputDir     string `json:"output_dir"`
	NumSamples    int    `json:"num_samples"`
	ColorEncoding string `json:"color_encoding"`
	PLYFormat     string `json:"ply_format"`
	LogFile       string `json:"log_file"`
	Debug         bool   `json:"debug"`
}

// Read reads a JSON or YAML config from the given file and validates it.
func Read(path string) (*Config, error) {
	var raw map[string]interface{}
	if err := readDocument(path, &raw); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if _, err := weakDecode(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config %q", path)
	}
	if err := cfg.Validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills in defaults and ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.NumSamples == 0 {
		cfg.NumSamples = DefaultNumSamples
	}
	if cfg.NumSamples < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("num_samples must be positive, got %d", cfg.NumSamples))
	}

	switch cfg.ColorEncoding {
	case "":
		cfg.ColorEncoding = string(pointcloud.ColorUint8)
	case string(pointcloud.ColorUint8), string(pointcloud.ColorFloat):
	default:
		return utils.NewConfigValidationError(path,
			errors.Errorf("color_encoding must be %q or %q, got %q", pointcloud.ColorUint8, pointcloud.ColorFloat, cfg.ColorEncoding))
	}

	switch cfg.PLYFormat {
	case "":
		cfg.PLYFormat = "ascii"
	case "ascii", "binary":
	default:
		return utils.NewConfigValidationError(path, errors.Errorf(`ply_format must be "ascii" or "binary", got %q`, cfg.PLYFormat))
	}
	return nil
}

// PLYOptions returns the point cloud writer options the config selects.
func (cfg *Config) PLYOptions() pointcloud.PLYOptions {
	opts := pointcloud.PLYOptions{Format: pointcloud.PLYAscii, ColorEncoding: pointcloud.ColorEncoding(cfg.ColorEncoding)}
	if cfg.PLYFormat == "binary" {
		opts.Format = pointcloud.PLYBinary
	}
	return opts
}

// RequireLibrary errors if no primitive library is configured.
func (cfg *Config) RequireLibrary(path string) error {
	if cfg.LibraryPath == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "library_path")
	}
	return nil
}
