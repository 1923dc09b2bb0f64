package wavefront

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/asset"
	"github.com/robotman2412/vlk-ray-tracer/log"
)

type reader struct {
	logger log.Logger
	model  *Model
}

// Read a wavefront object model from the given path. The path may point to a
// local file or to a http/https URL.
func Read(pathToFile string) (*Model, error) {
	res, err := asset.NewResource(pathToFile, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return ReadModel(res)
}

// Read a wavefront object model from the given resource.
func ReadModel(res *asset.Resource) (*Model, error) {
	r := &reader{
		logger: log.New("wavefront"),
		model: &Model{
			Positions: make([]mgl32.Vec3, 0),
			Normals:   make([]mgl32.Vec3, 0),
			UVs:       make([]mgl32.Vec2, 0),
			Groups:    make([]*Group, 0),
		},
	}

	start := time.Now()
	r.logger.Noticef(`parsing "%s"`, res.Path())

	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef(`parsed "%s" in %d ms`, res.Path(), time.Since(start).Nanoseconds()/1e6)
	return r.model, nil
}

// Parse wavefront object statements.
func (r *reader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.model.Positions = append(r.model.Positions, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.model.Normals = append(r.model.Normals, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.model.UVs = append(r.model.UVs, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.dropEmptyGroup()
			r.model.Groups = append(r.model.Groups, &Group{Name: lineTokens[1]})
		case "f":
			face, err := r.parseFace(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			// If no object has been defined create a default one
			if len(r.model.Groups) == 0 {
				r.model.Groups = append(r.model.Groups, &Group{Name: "default"})
			}

			group := r.model.Groups[len(r.model.Groups)-1]
			group.Faces = append(group.Faces, face)
		}
	}
	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.dropEmptyGroup()
	return nil
}

// Drop the last parsed group if it contains no faces.
func (r *reader) dropEmptyGroup() {
	lastGroupIndex := len(r.model.Groups) - 1
	if lastGroupIndex >= 0 && len(r.model.Groups[lastGroupIndex].Faces) == 0 {
		r.logger.Warningf(`dropping group "%s" as it contains no polygons`, r.model.Groups[lastGroupIndex].Name)
		r.model.Groups = r.model.Groups[:lastGroupIndex]
	}
}

// Parse a face definition. Each of the face arguments is comprised of 1, 2 or
// 3 indices separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the end
// of the vertex/uv/normal list.
func (r *reader) parseFace(lineTokens []string) (Face, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	face := make(Face, len(lineTokens)-1)
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if len(vTokens) > 3 {
			return nil, fmt.Errorf("face argument %d contains more than 3 indices", arg)
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		corner := FaceCorner{UV: -1, Normal: -1}

		var err error
		corner.Position, err = selectCoordIndex(vTokens[0], len(r.model.Positions))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}

		if len(vTokens) > 1 && vTokens[1] != "" {
			corner.UV, err = selectCoordIndex(vTokens[1], len(r.model.UVs))
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
		}

		if len(vTokens) > 2 && vTokens[2] != "" {
			corner.Normal, err = selectCoordIndex(vTokens[2], len(r.model.Normals))
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
		}

		face[arg] = corner
	}

	return face, nil
}

// Generate an error message that includes the failing file and line.
func (r *reader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("[%s: %d] error: %s", file, line, fmt.Sprintf(msgFormat, args...))
}

// Convert a 1-based or negative end-relative coordinate index to a 0-based
// index into a coordinate list of the given length.
func selectCoordIndex(token string, listLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return -1, err
	}

	switch {
	case index < 0:
		index = listLen + index
	case index > 0:
		index = index - 1
	default:
		return -1, fmt.Errorf("coordinate indices start at 1")
	}

	if index < 0 || index >= listLen {
		return -1, fmt.Errorf("coordinate index %s out of bounds", token)
	}
	return index, nil
}

// Parse a Vec2 from the given line tokens.
func parseVec2(lineTokens []string) (mgl32.Vec2, error) {
	if len(lineTokens) < 3 {
		return mgl32.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected at least 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v mgl32.Vec2
	for index := 0; index < 2; index++ {
		coord, err := strconv.ParseFloat(lineTokens[index+1], 32)
		if err != nil {
			return mgl32.Vec2{}, err
		}
		v[index] = float32(coord)
	}
	return v, nil
}

// Parse a Vec3 from the given line tokens.
func parseVec3(lineTokens []string) (mgl32.Vec3, error) {
	if len(lineTokens) < 4 {
		return mgl32.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected at least 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v mgl32.Vec3
	for index := 0; index < 3; index++ {
		coord, err := strconv.ParseFloat(lineTokens[index+1], 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[index] = float32(coord)
	}
	return v, nil
}
