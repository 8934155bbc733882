// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Detecting already downloaded files
//   - Cover thumbnail resizing and JPEG conversion
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("AC/DC - Thunderstruck") // "AC_DC - Thunderstruck"
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	jpeg, err := svc.FitJPEG(thumbnail, 500)
package ioutils
