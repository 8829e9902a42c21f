// Package config provides configuration management for deckrepo-manager.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Install-root resolution
//
// # Install Root Resolution
//
// The install root is resolved in order from the explicit setting, the
// DECKREPO_INSTALL_PATH environment variable, the Steam Deck override
// directory (when running on a deck), and finally a generic per-user
// fallback. The resolved value is passed into the installer and never
// read from a process-wide singleton.
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultConfigPath())
//	// Missing file yields defaults
//
// # Saving Settings
//
//	settings.InstallPath = "/custom/movies"
//	err := settings.Save(config.DefaultConfigPath())
package config
