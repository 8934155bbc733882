// Package config provides configuration management for tunegrab.
//
// This package handles:
//   - Loading and saving settings from a YAML file
//   - Default configuration values
//   - Range validation
//   - Conversion to download.Config and audio.TagConfig
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // errors.Is(err, config.ErrInvalid) for out-of-range values
//	}
//
// Keys missing from the file keep their defaults, so a file may contain
// only the values a user wants to change:
//
//	download:
//	  threads: 8
//	  retry_attempts: 5
//
// # Saving Settings
//
//	settings.Download.Threads = 6
//	err := settings.Save(config.DefaultPath())
package config
