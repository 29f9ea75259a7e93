package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/logging"
	"go.viam.com/superquadric/pointcloud"
)

const loggerName = "sqtool"

// settings is the config file, if any, overridden by global flags.
type settings struct {
	cfg     *config.Config
	cfgPath string
	logger  logging.Logger
}

func loadSettings(c *cli.Context) (*settings, error) {
	cfg := &config.Config{}
	cfgPath := "flags"
	if path := c.String(generalFlagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
		cfgPath = path
	}

	if c.IsSet(generalFlagLibrary) {
		cfg.LibraryPath = c.String(generalFlagLibrary)
	}
	if c.IsSet(generalFlagOutputDir) {
		cfg.OutputDir = c.String(generalFlagOutputDir)
	}
	if c.IsSet(generalFlagNumSamples) || cfg.NumSamples == 0 {
		cfg.NumSamples = c.Int(generalFlagNumSamples)
	}
	if c.IsSet(generalFlagColorEncoding) {
		cfg.ColorEncoding = c.String(generalFlagColorEncoding)
	}
	if c.IsSet(generalFlagPLYFormat) {
		cfg.PLYFormat = c.String(generalFlagPLYFormat)
	}
	if c.IsSet(generalFlagLogFile) {
		cfg.LogFile = c.String(generalFlagLogFile)
	}
	if c.Bool(generalFlagDebug) {
		cfg.Debug = true
	}
	if err := cfg.Validate(cfgPath); err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	logger := logging.NewBlankLogger(loggerName)
	logger.SetLevel(logging.INFO)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if cfg.LogFile != "" {
		logger.AddAppender(logging.NewFileAppender(cfg.LogFile, 10, 3))
	}
	logging.RegisterLogger(loggerName, logger)
	if cfg.Debug {
		if err := logging.UpdateLoggerLevel(loggerName, logging.DEBUG); err != nil {
			return nil, err
		}
	}
	logging.ReplaceGlobal(logger)

	return &settings{cfg: cfg, cfgPath: cfgPath, logger: logger}, nil
}

func (s *settings) plyOptions() pointcloud.PLYOptions {
	return s.cfg.PLYOptions()
}

// sampleOptions seeds the first sampled point when --seed is given.
func sampleOptions(c *cli.Context) []pointcloud.SampleOption {
	if !c.IsSet(sampleFlagSeed) {
		return nil
	}
	return []pointcloud.SampleOption{pointcloud.WithSeed(c.Int64(sampleFlagSeed))}
}
