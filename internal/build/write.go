package build

import (
	"fmt"
	"os"
	"path/filepath"
)

// staged is an encoded file written to a temporary name beside its destination.
type staged struct {
	tmp  string
	dest string
}

// writeFiles places each encoded file: the atlas at atlasPath, everything else
// under outputDir. Every file is first written to a temporary file in its
// destination directory; only when all of them are on disk are they renamed
// into place. A failure while staging removes the temporaries and leaves any
// previous outputs untouched.
func writeFiles(files []File, outputDir, atlasPath string) error {
	var pending []staged
	cleanup := func() {
		for _, s := range pending {
			_ = os.Remove(s.tmp)
		}
	}

	for _, f := range files {
		dest := filepath.Join(outputDir, f.Name)
		if f.Atlas {
			dest = atlasPath
		}
		tmp, err := stage(dest, f.Data)
		if err != nil {
			cleanup()
			return err
		}
		pending = append(pending, staged{tmp: tmp, dest: dest})
	}

	for i, s := range pending {
		if err := os.Rename(s.tmp, s.dest); err != nil {
			for _, rest := range pending[i:] {
				_ = os.Remove(rest.tmp)
			}
			return fmt.Errorf("moving %s into place: %w", s.dest, err)
		}
	}
	return nil
}

// stage writes data to a new temporary file in dest's directory, creating the
// directory if needed, and returns the temporary file's path.
func stage(dest string, data []byte) (string, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", dest, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Name(), nil
}
