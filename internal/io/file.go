package ioutils

import (
	"os"
	"path/filepath"
)

// WriteFile writes data to a file, creating parent directories as needed.
//
// The file is created with mode 0644. If the file already exists it is
// truncated, so re-running a download over the same directory replaces
// earlier results rather than accumulating duplicates.
//
// Example:
//
//	err := ioutils.WriteFile("/music/晴天-周杰伦.mp3", payload)
func WriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := ioutils.EnsureDir("/music/downloads")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CheckWritable verifies that dir exists (creating it if needed) and that
// a file can be created inside it. Output sinks call this up front so a
// bad destination fails the run at startup instead of after the first
// successful download.
func CheckWritable(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".songfetch-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
