//go:build !windows

// Package fatomic writes files so that readers never observe a partial write.
package fatomic

import (
	"os"

	"github.com/arduino/go-paths-helper"
	"github.com/google/renameio/v2"
)

// WriteFile creates the parent directory of file when missing and replaces
// file with data through a rename.
func WriteFile(file *paths.Path, data []byte, perm os.FileMode) error {
	if err := file.Parent().MkdirAll(); err != nil {
		return err
	}
	return renameio.WriteFile(file.String(), data, perm)
}
