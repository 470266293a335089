package fatomic

import (
	"os"

	"github.com/arduino/go-paths-helper"
)

// WriteFile truncates and rewrites file in place. Atomic renames are not
// supported on Windows.
func WriteFile(file *paths.Path, data []byte, perm os.FileMode) error {
	if err := file.Parent().MkdirAll(); err != nil {
		return err
	}
	return os.WriteFile(file.String(), data, perm)
}
