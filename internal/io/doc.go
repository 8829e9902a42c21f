// Package ioutils provides file system and image utilities for the
// installer and download pipeline.
//
// # File Operations
//
//	// Copy a file, preserving mode and mtime
//	err := ioutils.CopyFile(ctx, tempPath, destPath)
//
//	// Move a file, falling back to copy+remove across filesystems
//	err := ioutils.MoveFile(ctx, tempThumb, sidecarThumb)
//
//	// Ensure a directory exists
//	err := ioutils.EnsureDir("/overrides/.manager")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Video: Part 1/2") // "Video_ Part 1_2"
//
// # Image Processing
//
// ImageService normalizes downloaded thumbnails to JPEG before they are
// placed in the metadata sidecar directory:
//
//	svc := ioutils.NewImageService()
//	jpg, _ := svc.ResizeImage(ctx, raw, 640, 400)
package ioutils
