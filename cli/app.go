// Package cli contains the sqtool command line application: reconstructing scenes from fitting
// records, downsampling meshes, maintaining the primitive library and recording fits.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/superquadric"
)

// CLI flags.
const (
	generalFlagConfig        = "config"
	generalFlagDebug         = "debug"
	generalFlagLogFile       = "log-file"
	generalFlagLibrary       = "library"
	generalFlagOutputDir     = "output-dir"
	generalFlagNumSamples    = "num-samples"
	generalFlagColorEncoding = "color-encoding"
	generalFlagPLYFormat     = "ply-format"

	reconstructFlagRecords = "records"
	reconstructFlagOutput  = "output"

	sampleFlagSeed = "seed"

	sceneFlagGroundTruth = "scene-gt"
	sceneFlagKey         = "scene-key"
	sceneFlagMeshDir     = "mesh-dir"

	rescaleFlagOut    = "out"
	rescaleFlagFactor = "factor"

	infoFlagBins = "bins"

	fitFlagObject = "object"
	fitFlagScript = "script"
)

var app = &cli.App{
	Name:            "sqtool",
	Usage:           "compose superquadric scenes and prepare point clouds for fitting",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    generalFlagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  generalFlagLogFile,
			Usage: "also write logs to a rotating `FILE`",
		},
		&cli.PathFlag{
			Name:  generalFlagLibrary,
			Usage: "primitive library `DIR`",
		},
		&cli.PathFlag{
			Name:  generalFlagOutputDir,
			Usage: "output `DIR`",
		},
		&cli.IntFlag{
			Name:  generalFlagNumSamples,
			Usage: "points per downsampled cloud",
			Value: config.DefaultNumSamples,
		},
		&cli.StringFlag{
			Name:  generalFlagColorEncoding,
			Usage: "PLY color encoding: uint8 or float",
		},
		&cli.StringFlag{
			Name:  generalFlagPLYFormat,
			Usage: "PLY body format: ascii or binary",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "reconstruct",
			Usage:     "compose the primitives in a fitting info file into one colored point cloud",
			UsageText: "sqtool --library <dir> reconstruct --records <file> --output <file.ply>",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     reconstructFlagRecords,
					Required: true,
					Usage:    "fitting info `FILE` (json or yaml)",
				},
				&cli.PathFlag{
					Name:     reconstructFlagOutput,
					Required: true,
					Usage:    "output point cloud `FILE` (.ply, .pcd or .las)",
				},
			},
			Action: ReconstructAction,
		},
		{
			Name:      "sample",
			Usage:     "downsample meshes or clouds with farthest point sampling",
			ArgsUsage: "<file> [file...]",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:  sampleFlagSeed,
					Usage: "seed for the first sampled point; random if unset",
				},
			},
			Action: SampleAction,
		},
		{
			Name:  "convert-scene",
			Usage: "downsample every object mesh of a scene to a fixed size cloud",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     sceneFlagGroundTruth,
					Required: true,
					Usage:    "scene ground truth json `FILE`",
				},
				&cli.StringFlag{
					Name:  sceneFlagKey,
					Value: config.DefaultSceneKey,
					Usage: "scene to convert",
				},
				&cli.PathFlag{
					Name:     sceneFlagMeshDir,
					Required: true,
					Usage:    "`DIR` holding <id>_obj.obj meshes",
				},
				&cli.Int64Flag{
					Name:  sampleFlagSeed,
					Usage: "seed for the first sampled point; random if unset",
				},
			},
			Action: ConvertSceneAction,
		},
		{
			Name:            "library",
			Usage:           "work with the primitive library",
			HideHelpCommand: true,
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "list primitive ids",
					Action: ListPrimitivesAction,
				},
				{
					Name:  "rescale",
					Usage: "divide every primitive by a normalization factor",
					Flags: []cli.Flag{
						&cli.PathFlag{
							Name:     rescaleFlagOut,
							Required: true,
							Usage:    "output `DIR`",
						},
						&cli.Float64Flag{
							Name:  rescaleFlagFactor,
							Value: superquadric.DefaultRescaleFactor,
							Usage: "normalization factor",
						},
					},
					Action: RescaleAction,
				},
			},
		},
		{
			Name:      "info",
			Usage:     "print a summary of point cloud files",
			ArgsUsage: "<file> [file...]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  infoFlagBins,
					Usage: "also print a histogram of point distances to the centroid with this many bins",
				},
			},
			Action: InfoAction,
		},
		{
			Name:  "fit",
			Usage: "apply a script of editing actions and save the fitting info",
			Description: `Reads a stream of JSON actions, one per line:

  {"action": "add", "primitive": "0.5_1.0.ply"}
  {"action": "set", "field": "tx", "value": 0.2}
  {"action": "orient", "quaternion": {"w": 0.707, "x": 0, "y": 0, "z": 0.707}}
  {"action": "select", "index": 0}
  {"action": "remove", "index": 1}

"orient" also takes "axis_angle", "rotation_vector" or a row major "rotation_matrix".
Values are clamped to the editable range of each field. The result is written to
<output-dir>/<object>_fitting_info.json, or the next free _NN suffix.`,
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     fitFlagObject,
					Required: true,
					Usage:    "point cloud `FILE` of the object being fitted",
				},
				&cli.PathFlag{
					Name:  fitFlagScript,
					Value: "-",
					Usage: "action script `FILE`, - for stdin",
				},
			},
			Action: FitAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
