package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// The Allocator interface is the single capability the uploader needs from
// the graphics platform: allocate a device buffer holding the given contents
// or fail.
type Allocator interface {
	CreateBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error)
}

// SceneBuffers holds the device-side copies of a flattened scene: one storage
// buffer per flattened array plus a uniform buffer for the skybox.
type SceneBuffers struct {
	Objects *wgpu.Buffer
	Meshes  *wgpu.Buffer
	Tris    *wgpu.Buffer
	Verts   *wgpu.Buffer
	Norms   *wgpu.Buffer
	Vcols   *wgpu.Buffer
	UVs     *wgpu.Buffer
	Bvh     *wgpu.Buffer
	Skybox  *wgpu.Buffer

	ObjectCount uint32
}

// Upload a flattened scene to the device, one buffer per array. On the first
// allocation failure every buffer allocated so far is released and the error
// is returned tagged with the failing buffer's name.
func UploadScene(alloc Allocator, sd *SceneData) (*SceneBuffers, error) {
	storage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst

	out := &SceneBuffers{ObjectCount: sd.ObjectCount}
	steps := []struct {
		name   string
		target **wgpu.Buffer
		data   []byte
		usage  wgpu.BufferUsage
	}{
		{"objects", &out.Objects, wgpu.ToBytes(sd.Objects), storage},
		{"meshes", &out.Meshes, wgpu.ToBytes(sd.Meshes), storage},
		{"tris", &out.Tris, wgpu.ToBytes(sd.Tris), storage},
		{"verts", &out.Verts, wgpu.ToBytes(sd.Verts), storage},
		{"norms", &out.Norms, wgpu.ToBytes(sd.Norms), storage},
		{"vcols", &out.Vcols, wgpu.ToBytes(sd.Vcols), storage},
		{"uvs", &out.UVs, wgpu.ToBytes(sd.UVs), storage},
		{"bvh", &out.Bvh, wgpu.ToBytes(sd.Bvh), storage},
		{"skybox", &out.Skybox, wgpu.ToBytes([]GpuSkybox{sd.Skybox}), wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst},
	}

	for _, step := range steps {
		buf, err := alloc.CreateBuffer("scene "+step.name, step.data, step.usage)
		if err != nil {
			out.Release()
			return nil, fmt.Errorf("gpu: allocating %s buffer: %v", step.name, err)
		}
		*step.target = buf
	}
	return out, nil
}

// Release every allocated buffer. Safe to call on a partially uploaded set.
func (sb *SceneBuffers) Release() {
	for _, buf := range []*wgpu.Buffer{
		sb.Objects, sb.Meshes, sb.Tris, sb.Verts,
		sb.Norms, sb.Vcols, sb.UVs, sb.Bvh, sb.Skybox,
	} {
		if buf != nil {
			buf.Release()
		}
	}
	*sb = SceneBuffers{}
}
