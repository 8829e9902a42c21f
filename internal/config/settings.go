package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// InstallPathEnv overrides the install root when set.
const InstallPathEnv = "DECKREPO_INSTALL_PATH"

// deckOverridesPath is where SteamOS looks for replacement UI videos.
const deckOverridesPath = ".steam/root/config/uioverrides/movies"

// Settings holds all configuration options.
type Settings struct {
	// InstallPath is the explicit install root. Empty means "resolve a
	// platform default" (see ResolveInstallRoot).
	InstallPath string `json:"install_path"`

	// BaseURL is the repo service base URL.
	BaseURL string `json:"base_url"`

	// CachePath is where the last successful catalog response is kept.
	CachePath string `json:"cache_path"`

	// MaxConcurrentInstalls bounds how many items download at once in
	// batch mode.
	MaxConcurrentInstalls int `json:"max_concurrent_installs"`

	// ThumbnailMaxSize caps sidecar thumbnail dimensions in pixels.
	ThumbnailMaxSize int `json:"thumbnail_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:               "https://steamdeckrepo.com",
		CachePath:             DefaultCachePath(),
		MaxConcurrentInstalls: 2,
		ThumbnailMaxSize:      640,
	}
}

// DefaultConfigPath returns the per-user settings file location.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "deckrepo-manager", "config.json")
}

// DefaultCachePath returns the per-user catalog cache file location.
func DefaultCachePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cache", "deckrepo-manager", "posts.json")
}

// Load reads settings from a JSON file.
//
// A missing file yields defaults; a present but unparsable file is an
// error. Fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveInstallRoot returns the directory videos are installed into.
//
// Resolution order:
//  1. The explicit InstallPath setting.
//  2. The InstallPathEnv environment variable.
//  3. The Steam Deck override directory, when its parent exists.
//  4. A generic per-user fallback directory.
func (s *Settings) ResolveInstallRoot() string {
	if s.InstallPath != "" {
		return s.InstallPath
	}

	if env := os.Getenv(InstallPathEnv); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
		return env
	}

	homeDir, _ := os.UserHomeDir()

	if runtime.GOOS == "linux" {
		deckPath := filepath.Join(homeDir, deckOverridesPath)
		// Presence of config/uioverrides is enough; the movies dir
		// itself is created on first install.
		if _, err := os.Stat(filepath.Dir(deckPath)); err == nil {
			return deckPath
		}
	}

	return filepath.Join(homeDir, "Documents", "DeckRepoManager", "movies")
}

// CatalogURL returns the full catalog endpoint URL.
func (s *Settings) CatalogURL() string {
	return s.BaseURL + "/api/posts/all"
}

// DownloadURL returns the per-item download endpoint, which answers with
// a redirect to the actual asset.
func (s *Settings) DownloadURL(postID string) string {
	return s.BaseURL + "/post/download/" + postID
}
