package persistent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/types"
)

// Artifact describes files written for the collision.
type Artifact struct {
	Dir   string
	File1 string
	File2 string
}

// NewDirStore creates new store writing collisions to files under baseDir.
func NewDirStore(baseDir string) *DirStore {
	return &DirStore{
		baseDir: baseDir,
	}
}

// DirStore persists collisions as pairs of files, each containing 8-byte big-endian input.
type DirStore struct {
	baseDir string
}

// Dir returns directory where collisions of the algorithm and prefix length are stored.
func (s *DirStore) Dir(algorithm string, prefixHexLen int) string {
	return filepath.Join(s.baseDir, algorithm, fmt.Sprintf("pref_%02d", prefixHexLen))
}

// Save stores inputs of the collision.
func (s *DirStore) Save(algorithm string, prefixHexLen int, c types.Collision) (Artifact, error) {
	dir := s.Dir(algorithm, prefixHexLen)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, errors.WithStack(err)
	}

	a := Artifact{
		Dir:   dir,
		File1: filepath.Join(dir, fmt.Sprintf("%s_p%02d_x1_%016x.bin", algorithm, prefixHexLen, c.X1)),
		File2: filepath.Join(dir, fmt.Sprintf("%s_p%02d_x2_%016x.bin", algorithm, prefixHexLen, c.X2)),
	}
	if err := writeInput(a.File1, c.X1); err != nil {
		return Artifact{}, err
	}
	if err := writeInput(a.File2, c.X2); err != nil {
		_ = os.Remove(a.File1)
		return Artifact{}, err
	}
	return a, nil
}

// writeInput writes to temporary file first, so file with the final name is always complete.
func writeInput(path string, x uint64) (retErr error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if retErr != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	input := packing.InputBytes(x)
	if _, err := f.Write(input[:]); err != nil {
		return errors.WithStack(err)
	}
	if err := f.Sync(); err != nil {
		return errors.WithStack(err)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(f.Name(), path))
}
