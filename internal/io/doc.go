// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write data to a file, creating parent directories
//	err := ioutils.WriteFile("/music/file.mp3", payload)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/downloads")
//
//	// Verify a sink directory is usable before the run starts
//	err := ioutils.CheckWritable("/music/downloads")
//
// # Cover Art Processing
//
// CoverProcessor normalizes downloaded album art for ID3 embedding:
//
//	proc := ioutils.NewCoverProcessor(500, true)
//	jpegBytes, err := proc.Process(artBytes)
package ioutils
