package main

import (
	"os"

	"github.com/robotman2412/vlk-ray-tracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "vlk-ray-tracer"
	app.Usage = "prepare and inspect GPU ray tracing scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile wavefront obj scenes into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file, build a BVH per mesh to
optimize ray intersection tests and flatten scene elements into the
GPU-friendly buffer layout.

The flattened scene data is then written to a zip archive which can be
inspected with the info command or uploaded to the device.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Action:    cmd.Compile,
		},
		{
			Name:      "info",
			Usage:     "print buffer statistics for a compiled scene archive",
			ArgsUsage: "scene_file.zip",
			Action:    cmd.Info,
		},
		{
			Name:   "gpu-info",
			Usage:  "report the webgpu adapter used for scene uploads",
			Action: cmd.GpuInfo,
		},
	}

	app.Run(os.Args)
}
