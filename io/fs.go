package io

import (
	"github.com/spf13/afero"
)

// Sandbox returns a read only view of fs. When dir is not empty, paths are
// resolved beneath it.
func Sandbox(fs afero.Fs, dir string) afero.Fs {
	if len(dir) != 0 {
		fs = afero.NewBasePathFs(fs, dir)
	}

	return afero.NewReadOnlyFs(fs)
}
