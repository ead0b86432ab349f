package videobackend

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/xerror"
)

// OpenCV only reads and writes real paths, so byte buffers pass
// through short lived files which are always removed afterwards.

func tempPath(dir, ext string) string {
	if len(dir) == 0 {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "dragonfx-"+uuid.NewString()+ext)
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}

func stageInput(dir, ext string, data []byte) (string, func(), error) {
	path := tempPath(dir, ext)
	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return "", nil, xerror.Errorf("unable to create staging directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return "", nil, xerror.Errorf("unable to stage input to %s: %w", path, err)
	}
	return path, func() { removeStaged(path) }, nil
}

func stageOutput(dir, ext string) (string, func(), error) {
	path := tempPath(dir, ext)
	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return "", nil, xerror.Errorf("unable to create staging directory: %w", err)
	}
	return path, func() { removeStaged(path) }, nil
}

func removeStaged(path string) {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("unable to remove staged file %s: %v", path, err)
	}
}
