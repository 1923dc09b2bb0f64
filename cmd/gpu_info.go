package cmd

import (
	"github.com/robotman2412/vlk-ray-tracer/gpu"
	"github.com/urfave/cli"
)

// Report the adapter that scene buffers would be uploaded to.
func GpuInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	dev, err := gpu.OpenDevice()
	if err != nil {
		logger.Error(err)
		return err
	}
	defer dev.Release()

	logger.Noticef("adapter: %s", dev.AdapterDescription())
	return nil
}
