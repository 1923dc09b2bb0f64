package gpu

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of flattened scene statistics.
func (sd *SceneData) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Buffer", "Records", "Size"})
	table.Append([]string{"Objects", fmt.Sprintf("%d", len(sd.Objects)), fmtSize(sd.Objects)})
	table.Append([]string{"Meshes", fmt.Sprintf("%d", len(sd.Meshes)), fmtSize(sd.Meshes)})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", len(sd.Tris)), fmtSize(sd.Tris)})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(sd.Verts)), fmtSize(sd.Verts)})
	table.Append([]string{"Normals", fmt.Sprintf("%d", len(sd.Norms)), fmtSize(sd.Norms)})
	table.Append([]string{"Vertex colors", fmt.Sprintf("%d", len(sd.Vcols)), fmtSize(sd.Vcols)})
	table.Append([]string{"UVs", fmt.Sprintf("%d", len(sd.UVs)), fmtSize(sd.UVs)})
	table.Append([]string{"BVH nodes", fmt.Sprintf("%d", len(sd.Bvh)), fmtSize(sd.Bvh)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(sd.Objects, sd.Meshes, sd.Tris, sd.Verts, sd.Norms, sd.Vcols, sd.UVs, sd.Bvh), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
