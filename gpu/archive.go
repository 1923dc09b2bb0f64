package gpu

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robotman2412/vlk-ray-tracer/asset"
	"github.com/robotman2412/vlk-ray-tracer/log"
)

const archiveDataFile = "scene.bin"

// Write flattened scene data to a zip archive so it can be uploaded later
// without re-importing models or rebuilding hierarchies.
func WriteSceneData(sd *SceneData, filename string) error {
	logger := log.New("zip writer")
	logger.Noticef(`writing compiled scene to "%s"`, filename)
	start := time.Now()

	zipFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	w, err := zw.Create(archiveDataFile)
	if err != nil {
		return err
	}
	encoder := gob.NewEncoder(w)
	if err = encoder.Encode(sd); err != nil {
		return fmt.Errorf("zipSceneWriter: failed to encode %s: %s", archiveDataFile, err.Error())
	}
	if err = zw.Close(); err != nil {
		return err
	}

	logger.Noticef("wrote scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Read flattened scene data from a zip archive resource.
func ReadSceneData(res *asset.Resource) (*SceneData, error) {
	logger := log.New("zip reader")
	logger.Noticef(`parsing compiled scene from "%s"`, res.Path())
	start := time.Now()

	// zip requires a ReaderAt; read the archive into memory first.
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	sd := &SceneData{}
	found := false
	for _, f := range zr.File {
		if f.Name != archiveDataFile {
			logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		decoder := gob.NewDecoder(rc)
		err = decoder.Decode(sd)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %s", f.Name, err.Error())
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("zipSceneReader: %s missing from archive", archiveDataFile)
	}

	logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sd, nil
}
