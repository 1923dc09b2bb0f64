package cmd

import (
	"fmt"

	"github.com/robotman2412/vlk-ray-tracer/asset"
	"github.com/robotman2412/vlk-ray-tracer/gpu"
	"github.com/urfave/cli"
)

// Print buffer statistics for a compiled scene archive.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("expected a single compiled scene file")
	}

	res, err := asset.NewResource(ctx.Args().First(), nil)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer res.Close()

	sd, err := gpu.ReadSceneData(res)
	if err != nil {
		logger.Error(err)
		return err
	}

	logger.Noticef("%d renderable objects", sd.ObjectCount)
	fmt.Print(sd.Stats())
	return nil
}
