package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultManifestPath is the default location for the manifest file
	DefaultManifestPath = "/etc/netconf.yml"
	// DefaultHostsPath is the hosts file managed when the manifest
	// does not name one
	DefaultHostsPath = "/etc/hosts"
	// DefaultResolvConfPath is the resolver configuration managed when
	// the manifest does not name one
	DefaultResolvConfPath = "/etc/resolv.conf"
)

// defaultManifest returns a manifest that manages the standard files
// but carries no entries.
func defaultManifest() *Manifest {
	return &Manifest{
		HostsPath:      DefaultHostsPath,
		ResolvConfPath: DefaultResolvConfPath,
	}
}

// Load reads and parses the manifest file. A missing file is created
// with the default manifest.
func Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultManifest(path); err != nil {
			return nil, fmt.Errorf("failed to create default manifest: %w", err)
		}
		return defaultManifest(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if manifest.HostsPath == "" {
		manifest.HostsPath = DefaultHostsPath
	}
	if manifest.ResolvConfPath == "" {
		manifest.ResolvConfPath = DefaultResolvConfPath
	}

	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &manifest, nil
}

// createDefaultManifest writes the default manifest to path.
func createDefaultManifest(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(defaultManifest())
	if err != nil {
		return fmt.Errorf("failed to marshal default manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Reload reloads the manifest from disk.
func Reload(path string) (*Manifest, error) {
	return Load(path)
}
