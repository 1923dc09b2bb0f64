package cmd

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/asset/wavefront"
	"github.com/robotman2412/vlk-ray-tracer/gpu"
	"github.com/robotman2412/vlk-ray-tracer/scene"
	"github.com/urfave/cli"
)

// Compile wavefront obj scenes to the flattened binary format.
func Compile(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return fmt.Errorf("no scene files specified")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			err := fmt.Errorf("unsupported file %s; expected a wavefront obj file", sceneFile)
			logger.Error(err)
			return err
		}

		sd, err := compileScene(sceneFile)
		if err != nil {
			logger.Error(err)
			return err
		}

		zipFile := strings.Replace(sceneFile, ".obj", ".zip", -1)
		err = gpu.WriteSceneData(sd, zipFile)
		if err != nil {
			logger.Error(err)
			return err
		}
	}
	return nil
}

// Import a wavefront obj file, build a BVH per mesh and flatten the result.
func compileScene(sceneFile string) (*gpu.SceneData, error) {
	model, err := wavefront.Read(sceneFile)
	if err != nil {
		return nil, err
	}

	sc := scene.NewScene()
	root := sc.AddNode(scene.NewNode())
	for _, group := range model.Groups {
		mesh := scene.NewMeshFromGroup(model, group)
		if len(mesh.Tris) == 0 {
			logger.Warningf(`skipping group "%s": no triangles`, group.Name)
			continue
		}
		mesh.BuildBvh()

		node := scene.NewModelNode(
			scene.IdentityTransform(),
			scene.MeshModel(mesh),
			scene.PropFromColor(mgl32.Vec3{1, 1, 1}),
		)
		root.AddChild(node)
	}

	return gpu.Flatten(sc), nil
}
